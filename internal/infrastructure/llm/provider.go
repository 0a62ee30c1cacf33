// Package llm 提供文本生成服务的客户端实现
package llm

import (
	"context"
	"errors"
)

// 提供商类型
const (
	KindCohere = "cohere"
	KindOpenAI = "openai"
	KindEino   = "eino"
	KindMock   = "mock"
)

var (
	// ErrMalformedResponse 响应无法解析或缺少候选文本
	ErrMalformedResponse = errors.New("malformed generation response")
	// ErrMissingAPIKey 未配置凭据
	ErrMissingAPIKey = errors.New("llm api key not configured")
)

// Request 一次生成请求
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response 第一个候选文本及用量
type Response struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Provider 文本生成提供商
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (*Response, error)
}
