//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"ai-content-gen-api/internal/application/generation"
	"ai-content-gen-api/internal/config"
	"ai-content-gen-api/internal/infrastructure/llm"
	"ai-content-gen-api/internal/interfaces/http/handler"
	"ai-content-gen-api/internal/interfaces/http/router"
)

// InitializeApp 初始化 HTTP 应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		MessagingSet,
		LLMSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeCLI 初始化命令行工具依赖
func InitializeCLI(ctx context.Context, cfg *config.Config) (*CLIApp, func(), error) {
	wire.Build(
		RedisSet,
		MessagingSet,
		LLMSet,
		GenerationSet,
		ProvideAuditReader,
		wire.Struct(new(CLIApp), "*"),
	)
	return nil, nil, nil
}

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideSessionStore,
	ProvideRateLimiter,
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvidePublisher,
)

// LLMSet 提供商工厂
var LLMSet = wire.NewSet(
	llm.NewFactory,
	wire.Bind(new(generation.ProviderSource), new(*llm.Factory)),
)

// GenerationSet 生成工作流
var GenerationSet = wire.NewSet(
	generation.OptionsFromConfig,
	generation.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewGenerationHandler,
	handler.NewPageHandler,
	ProvideRouterHandlers,
	router.New,
)
