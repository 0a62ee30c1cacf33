package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"ai-content-gen-api/internal/config"
)

// Factory 按配置名称管理提供商实例
type Factory struct {
	config    *config.LLMConfig
	providers map[string]Provider
	mu        sync.RWMutex
	group     singleflight.Group
}

// NewFactory 创建 LLM 工厂
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config:    &cfg.LLM,
		providers: make(map[string]Provider),
	}
}

// Get 获取指定名称的提供商，如果未指定则返回默认提供商
func (f *Factory) Get(ctx context.Context, name string) (Provider, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	p, ok := f.providers[name]
	f.mu.RUnlock()
	if ok {
		return p, nil
	}

	// 惰性加载，并发首次请求合并为一次构建
	v, err, _ := f.group.Do(name, func() (interface{}, error) {
		f.mu.RLock()
		cached, ok := f.providers[name]
		f.mu.RUnlock()
		if ok {
			return cached, nil
		}

		providerCfg, ok := f.config.Providers[name]
		if !ok {
			return nil, fmt.Errorf("provider %s not found in LLM config", name)
		}

		built, err := build(ctx, name, providerCfg)
		if err != nil {
			return nil, err
		}
		built = Instrument(built)

		f.mu.Lock()
		f.providers[name] = built
		f.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}

func build(ctx context.Context, name string, pc config.ProviderConfig) (Provider, error) {
	kind := strings.ToLower(strings.TrimSpace(pc.Kind))
	if kind == "" {
		kind = name
	}

	switch kind {
	case KindCohere:
		return NewCohereProvider(CohereConfig{
			Name:    name,
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout,
		})
	case KindOpenAI:
		return NewOpenAIProvider(OpenAIConfig{
			Name:    name,
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout,
		})
	case KindEino:
		return NewEinoProvider(ctx, EinoConfig{
			Name:    name,
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: pc.Timeout,
		})
	case KindMock:
		return NewMockProvider(name), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider kind %q for %s", pc.Kind, name)
	}
}
