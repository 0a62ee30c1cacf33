// Package memory 提供进程内的会话存储实现
package memory

import (
	"context"
	"sync"
	"time"

	"ai-content-gen-api/internal/domain/entity"
)

const defaultCapacity = 100

type session struct {
	history  *ring
	view     *entity.SessionView
	lastSeen time.Time
}

// SessionStore 进程内会话存储，重启后丢失
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore 创建会话存储
// capacity 为每个会话的历史容量，ttl<=0 时会话不过期
func NewSessionStore(capacity int, ttl time.Duration) *SessionStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Backend 存储后端名称
func (s *SessionStore) Backend() string {
	return "memory"
}

// Prepend 插入历史记录
func (s *SessionStore) Prepend(_ context.Context, sessionID string, item *entity.GeneratedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.touchLocked(sessionID)
	sess.history.pushFront(item)
	return nil
}

// List 返回历史记录（最新在前）
func (s *SessionStore) List(_ context.Context, sessionID string) ([]*entity.GeneratedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.liveLocked(sessionID)
	if !ok {
		return []*entity.GeneratedItem{}, nil
	}
	return sess.history.items(), nil
}

// Get 按 ID 获取历史记录
func (s *SessionStore) Get(_ context.Context, sessionID, itemID string) (*entity.GeneratedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.liveLocked(sessionID)
	if !ok {
		return nil, nil
	}
	return sess.history.find(itemID), nil
}

// GetView 获取会话视图副本
func (s *SessionStore) GetView(_ context.Context, sessionID string) (*entity.SessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.liveLocked(sessionID)
	if !ok || sess.view == nil {
		return nil, nil
	}
	cp := *sess.view
	return &cp, nil
}

// SaveView 保存会话视图
func (s *SessionStore) SaveView(_ context.Context, sessionID string, view *entity.SessionView) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.touchLocked(sessionID)
	cp := *view
	sess.view = &cp
	return nil
}

// liveLocked 查找未过期的会话，调用方需持有读锁
func (s *SessionStore) liveLocked(sessionID string) (*session, bool) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if s.expired(sess, s.now()) {
		return nil, false
	}
	return sess, true
}

// touchLocked 获取或创建会话并刷新活跃时间，顺带清理过期会话
func (s *SessionStore) touchLocked(sessionID string) *session {
	now := s.now()
	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, now) {
		s.evictExpiredLocked(now)
		sess = &session{history: newRing(s.capacity)}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = now
	return sess
}

func (s *SessionStore) evictExpiredLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}
