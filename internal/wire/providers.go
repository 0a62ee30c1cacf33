// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"ai-content-gen-api/internal/application/generation"
	"ai-content-gen-api/internal/config"
	"ai-content-gen-api/internal/domain/repository"
	"ai-content-gen-api/internal/infrastructure/messaging"
	"ai-content-gen-api/internal/infrastructure/persistence/memory"
	"ai-content-gen-api/internal/infrastructure/persistence/redis"
	"ai-content-gen-api/internal/interfaces/http/handler"
	"ai-content-gen-api/internal/interfaces/http/middleware"
	"ai-content-gen-api/internal/interfaces/http/router"
	"ai-content-gen-api/pkg/logger"
)

const backendRedis = "redis"

// CLIApp 命令行工具依赖
type CLIApp struct {
	Generation *generation.Service
	// Audit 未启用 redis 时为 nil
	Audit *messaging.Reader
}

// ProvideRedisClient 提供 Redis 客户端
// 未启用时返回 nil；历史存储不依赖 redis 时连接失败只降级
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	required := cfg.Generation.HistoryBackend == backendRedis
	if !cfg.Cache.Redis.Enabled && !required {
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		if required {
			return nil, nil, err
		}
		logger.Warn(ctx, "redis not available, rate limit and audit disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideSessionStore 按配置选择会话存储后端
func ProvideSessionStore(cfg *config.Config, client *redis.Client) (repository.SessionStore, error) {
	gc := cfg.Generation
	switch gc.HistoryBackend {
	case "", "memory":
		return memory.NewSessionStore(gc.HistoryCapacity, gc.SessionTTL), nil
	case backendRedis:
		if client == nil {
			return nil, fmt.Errorf("history backend redis requires cache.redis")
		}
		return redis.NewSessionStore(client, gc.HistoryCapacity, gc.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unsupported history backend %q", gc.HistoryBackend)
	}
}

// ProvideRateLimiter 提供限流器，redis 不可用时为 nil
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvidePublisher 提供审计事件发布者，未启用时为 nil
func ProvidePublisher(cfg *config.Config, client *redis.Client) generation.Publisher {
	if !cfg.Features.Audit.Enabled || client == nil {
		return nil
	}
	return messaging.NewProducer(client.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
}

// ProvideAuditReader 提供审计流读取器
func ProvideAuditReader(client *redis.Client) *messaging.Reader {
	if client == nil {
		return nil
	}
	return messaging.NewReader(client.Redis())
}

// ProvideRouterHandlers 组装路由处理器
func ProvideRouterHandlers(
	health *handler.HealthHandler,
	gen *handler.GenerationHandler,
	page *handler.PageHandler,
	svc *generation.Service,
) *router.Handlers {
	return &router.Handlers{
		Health:     health,
		Generation: gen,
		Page:       page,
		Sessions:   svc,
	}
}
