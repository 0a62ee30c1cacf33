package llm

import (
	"context"
	"fmt"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoConfig Eino ChatModel 配置（OpenAI 兼容接口）
type EinoConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// EinoProvider 通过 Eino ChatModel 以单轮用户消息生成
type EinoProvider struct {
	name  string
	model string
	chat  model.BaseChatModel
}

// NewEinoProvider 创建 Eino 提供商
func NewEinoProvider(ctx context.Context, cfg EinoConfig) (*EinoProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Name == "" {
		cfg.Name = KindEino
	}

	chatModel, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", cfg.Name, err)
	}

	return newEinoProviderWithModel(cfg.Name, cfg.Model, chatModel), nil
}

func newEinoProviderWithModel(name, modelName string, chat model.BaseChatModel) *EinoProvider {
	return &EinoProvider{name: name, model: modelName, chat: chat}
}

// Name 提供商名称
func (p *EinoProvider) Name() string { return p.name }

// Model 模型名称
func (p *EinoProvider) Model() string { return p.model }

// Generate 发起一次生成请求
func (p *EinoProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	// 直接调用组件时不经过 compose 图，需要手动挂载全局回调
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      p.name,
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})

	msg, err := p.chat.Generate(ctx,
		[]*schema.Message{schema.UserMessage(req.Prompt)},
		model.WithMaxTokens(req.MaxTokens),
		model.WithTemperature(float32(req.Temperature)),
	)
	if err != nil {
		return nil, fmt.Errorf("eino generate failed: %w", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty message", ErrMalformedResponse)
	}

	out := &Response{Text: msg.Content}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		out.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
		out.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
	}
	return out, nil
}
