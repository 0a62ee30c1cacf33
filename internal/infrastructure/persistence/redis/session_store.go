package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-content-gen-api/internal/domain/entity"
)

const keyPrefix = "cg:session"

// SessionStore Redis 会话存储
// 历史为 JSON 列表（LPUSH 保证最新在前，LTRIM 保证容量），视图为 JSON 字符串
type SessionStore struct {
	client   *Client
	capacity int
	ttl      time.Duration
}

// NewSessionStore 创建 Redis 会话存储
func NewSessionStore(client *Client, capacity int, ttl time.Duration) *SessionStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &SessionStore{
		client:   client,
		capacity: capacity,
		ttl:      ttl,
	}
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("%s:%s:history", keyPrefix, sessionID)
}

func viewKey(sessionID string) string {
	return fmt.Sprintf("%s:%s:view", keyPrefix, sessionID)
}

// Backend 存储后端名称
func (s *SessionStore) Backend() string {
	return "redis"
}

// Prepend 插入历史记录
func (s *SessionStore) Prepend(ctx context.Context, sessionID string, item *entity.GeneratedItem) error {
	ctx, span := tracer.Start(ctx, "history.Prepend",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("item.id", item.ID),
		))
	defer span.End()

	data, err := json.Marshal(item)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal history item: %w", err)
	}

	key := historyKey(sessionID)
	_, err = s.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(s.capacity-1))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
			pipe.Expire(ctx, viewKey(sessionID), s.ttl)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to prepend history item: %w", err)
	}
	return nil
}

// List 返回历史记录（最新在前）
func (s *SessionStore) List(ctx context.Context, sessionID string) ([]*entity.GeneratedItem, error) {
	ctx, span := tracer.Start(ctx, "history.List",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	raw, err := s.client.rdb.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	items := make([]*entity.GeneratedItem, 0, len(raw))
	for _, r := range raw {
		var item entity.GeneratedItem
		if err := json.Unmarshal([]byte(r), &item); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to unmarshal history item: %w", err)
		}
		items = append(items, &item)
	}
	span.SetAttributes(attribute.Int("history.count", len(items)))
	return items, nil
}

// Get 按 ID 获取历史记录
func (s *SessionStore) Get(ctx context.Context, sessionID, itemID string) (*entity.GeneratedItem, error) {
	items, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, nil
}

// GetView 获取会话视图
func (s *SessionStore) GetView(ctx context.Context, sessionID string) (*entity.SessionView, error) {
	ctx, span := tracer.Start(ctx, "view.Get",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	raw, err := s.client.rdb.Get(ctx, viewKey(sessionID)).Bytes()
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get view: %w", err)
	}

	var view entity.SessionView
	if err := json.Unmarshal(raw, &view); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to unmarshal view: %w", err)
	}
	return &view, nil
}

// SaveView 保存会话视图
func (s *SessionStore) SaveView(ctx context.Context, sessionID string, view *entity.SessionView) error {
	ctx, span := tracer.Start(ctx, "view.Save",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("view.state", string(view.State)),
		))
	defer span.End()

	data, err := json.Marshal(view)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal view: %w", err)
	}

	// 视图与历史同时续期，保证历史与会话同生命周期
	_, err = s.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, viewKey(sessionID), data, s.ttl)
		if s.ttl > 0 {
			pipe.Expire(ctx, historyKey(sessionID), s.ttl)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save view: %w", err)
	}
	return nil
}
