package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider 本地调试用，不调用外部服务
type MockProvider struct {
	name string
}

// NewMockProvider 创建 Mock 提供商
func NewMockProvider(name string) *MockProvider {
	if name == "" {
		name = KindMock
	}
	return &MockProvider{name: name}
}

// Name 提供商名称
func (p *MockProvider) Name() string { return p.name }

// Model 模型名称
func (p *MockProvider) Model() string { return "mock" }

// Generate 把提示词包装成一段 Markdown 返回
func (p *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("\n# Draft\n\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "_max tokens: %d, temperature: %.1f_\n", req.MaxTokens, req.Temperature)

	words := len(strings.Fields(req.Prompt))
	return &Response{
		Text:             sb.String(),
		PromptTokens:     words,
		CompletionTokens: words + 8,
	}, nil
}
