// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ai-content-gen-api/internal/domain/entity"
)

// HistoryRepository 会话历史仓储，按时间倒序（最新在前）
type HistoryRepository interface {
	// Prepend 将记录插入到最前；超出容量时淘汰最旧的记录
	Prepend(ctx context.Context, sessionID string, item *entity.GeneratedItem) error
	// List 返回全部记录，index 0 为最新
	List(ctx context.Context, sessionID string) ([]*entity.GeneratedItem, error)
	// Get 按 ID 获取记录，不存在时返回 nil, nil
	Get(ctx context.Context, sessionID, itemID string) (*entity.GeneratedItem, error)
}

// ViewRepository 会话视图仓储
type ViewRepository interface {
	// GetView 获取视图，不存在时返回 nil, nil
	GetView(ctx context.Context, sessionID string) (*entity.SessionView, error)
	SaveView(ctx context.Context, sessionID string, view *entity.SessionView) error
}

// SessionStore 同时提供历史与视图存储
type SessionStore interface {
	HistoryRepository
	ViewRepository
	// Backend 存储后端名称，用于指标标签
	Backend() string
}
