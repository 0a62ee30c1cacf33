// Package entity 定义领域实体
package entity

import "time"

// RequestState 生成请求状态
type RequestState string

const (
	RequestStateIdle      RequestState = "idle"
	RequestStateInFlight  RequestState = "in_flight"
	RequestStateSucceeded RequestState = "succeeded"
	RequestStateFailed    RequestState = "failed"
)

// SessionView 会话的当前展示状态
type SessionView struct {
	Display   string       `json:"display"`
	State     RequestState `json:"state"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewSessionView 创建空闲状态的视图
func NewSessionView() *SessionView {
	return &SessionView{
		State:     RequestStateIdle,
		UpdatedAt: time.Now(),
	}
}

// Generating 是否有请求正在进行
func (v *SessionView) Generating() bool {
	return v.State == RequestStateInFlight
}

// Begin 进入 in_flight
func (v *SessionView) Begin(now time.Time) {
	v.State = RequestStateInFlight
	v.UpdatedAt = now
}

// Succeed 生成成功，展示生成内容
func (v *SessionView) Succeed(content string, now time.Time) {
	v.Display = content
	v.State = RequestStateSucceeded
	v.UpdatedAt = now
}

// Fail 生成失败，展示固定错误文案
func (v *SessionView) Fail(message string, now time.Time) {
	v.Display = message
	v.State = RequestStateFailed
	v.UpdatedAt = now
}

// Show 展示历史记录内容，不改变请求状态
func (v *SessionView) Show(content string, now time.Time) {
	v.Display = content
	v.UpdatedAt = now
}
