// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedItem 一次成功生成的历史记录，创建后不可变
type GeneratedItem struct {
	ID          string      `json:"id"`
	Topic       string      `json:"topic"`
	ContentType ContentType `json:"content_type"`
	Tone        Tone        `json:"tone"`
	Length      Length      `json:"length"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewGeneratedItem 创建历史记录
// ID 使用 UUIDv7（前 48 位为毫秒时间戳）
func NewGeneratedItem(input FormInput, content string, now time.Time) *GeneratedItem {
	return &GeneratedItem{
		ID:          newTimeBasedID(),
		Topic:       input.Topic,
		ContentType: input.ContentType,
		Tone:        input.Tone,
		Length:      input.Length,
		Content:     content,
		Timestamp:   now,
	}
}

func newTimeBasedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
