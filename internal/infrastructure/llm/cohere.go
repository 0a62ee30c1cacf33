package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultCohereBaseURL = "https://api.cohere.ai/v1"
	defaultCohereModel   = "command"
	maxErrorBodyBytes    = 4 << 10
	maxResponseBytes     = 4 << 20
)

// CohereConfig Cohere 客户端配置
type CohereConfig struct {
	Name       string
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// CohereProvider 调用 Cohere /generate 接口
type CohereProvider struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

type cohereGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// NewCohereProvider 创建 Cohere 客户端
func NewCohereProvider(cfg CohereConfig) (*CohereProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCohereBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultCohereModel
	}
	if cfg.Name == "" {
		cfg.Name = KindCohere
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &CohereProvider{
		name:    cfg.Name,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    client,
	}, nil
}

// Name 提供商名称
func (p *CohereProvider) Name() string { return p.name }

// Model 模型名称
func (p *CohereProvider) Model() string { return p.model }

// Generate 发起一次生成请求
func (p *CohereProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(cohereGenerateRequest{
		Model:       p.model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cohere request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build cohere request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cohere request failed: %w", err)
	}
	defer resp.Body.Close()

	// 多读一个字节用于判断是否超限
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read cohere response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("cohere returned status %d: %s", resp.StatusCode, errorMessage(payload))
	}
	if len(payload) > maxResponseBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrMalformedResponse, maxResponseBytes)
	}

	return parseCohereResponse(payload)
}

func parseCohereResponse(payload []byte) (*Response, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}

	text := gjson.GetBytes(payload, "generations.0.text")
	if !text.Exists() || text.Type != gjson.String {
		return nil, fmt.Errorf("%w: generations[0].text missing", ErrMalformedResponse)
	}

	units := gjson.GetBytes(payload, "meta.billed_units")
	return &Response{
		Text:             text.String(),
		PromptTokens:     int(units.Get("input_tokens").Int()),
		CompletionTokens: int(units.Get("output_tokens").Int()),
	}, nil
}

// errorMessage 提取错误响应中的 message 字段，截断过长内容
func errorMessage(payload []byte) string {
	if msg := gjson.GetBytes(payload, "message"); msg.Exists() {
		return msg.String()
	}
	if len(payload) > maxErrorBodyBytes {
		payload = payload[:maxErrorBodyBytes]
	}
	return strings.TrimSpace(string(payload))
}
