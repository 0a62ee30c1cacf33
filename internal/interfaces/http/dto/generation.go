package dto

import (
	"time"

	"ai-content-gen-api/internal/domain/entity"
)

// GenerateRequest 生成请求
// 字段不做必填绑定：缺失字段由工作流统一判定
type GenerateRequest struct {
	Topic       string `json:"topic" form:"topic"`
	ContentType string `json:"content_type" form:"content_type"`
	Tone        string `json:"tone" form:"tone"`
	Length      string `json:"length" form:"length"`
}

// ToFormInput 转换为表单实体
func (r *GenerateRequest) ToFormInput() entity.FormInput {
	return entity.FormInput{
		Topic:       r.Topic,
		ContentType: entity.ContentType(r.ContentType),
		Tone:        entity.Tone(r.Tone),
		Length:      entity.Length(r.Length),
	}
}

// SessionResponse 新建会话响应
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	View      *ViewResponse `json:"view"`
}

// ViewResponse 会话视图
type ViewResponse struct {
	Display    string `json:"display"`
	HTML       string `json:"html,omitempty"`
	State      string `json:"state"`
	Generating bool   `json:"generating"`
	UpdatedAt  string `json:"updated_at"`
}

// ToViewResponse 转换会话视图
func ToViewResponse(v *entity.SessionView) *ViewResponse {
	if v == nil {
		return nil
	}
	return &ViewResponse{
		Display:    v.Display,
		State:      string(v.State),
		Generating: v.Generating(),
		UpdatedAt:  v.UpdatedAt.Format(time.RFC3339),
	}
}

// GenerateResponse 生成结果
type GenerateResponse struct {
	View *ViewResponse        `json:"view"`
	Item *HistoryItemResponse `json:"item,omitempty"`
}

// HistoryItemResponse 历史记录
type HistoryItemResponse struct {
	ID          string `json:"id"`
	Topic       string `json:"topic"`
	ContentType string `json:"content_type"`
	Tone        string `json:"tone"`
	Length      string `json:"length"`
	Preview     string `json:"preview"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
}

// ToHistoryItemResponse 转换历史记录，preview 由调用方截取
func ToHistoryItemResponse(item *entity.GeneratedItem, preview string) *HistoryItemResponse {
	if item == nil {
		return nil
	}
	return &HistoryItemResponse{
		ID:          item.ID,
		Topic:       item.Topic,
		ContentType: string(item.ContentType),
		Tone:        string(item.Tone),
		Length:      string(item.Length),
		Preview:     preview,
		Content:     item.Content,
		Timestamp:   item.Timestamp.Format(time.RFC3339Nano),
	}
}

// HistoryListResponse 历史列表
type HistoryListResponse struct {
	Items []*HistoryItemResponse `json:"items"`
}

// Option 下拉选项
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsResponse 表单可选值
type OptionsResponse struct {
	ContentTypes []Option `json:"content_types"`
	Tones        []Option `json:"tones"`
	Lengths      []Option `json:"lengths"`
}

// NewOptionsResponse 构建表单可选值
func NewOptionsResponse() *OptionsResponse {
	resp := &OptionsResponse{
		ContentTypes: make([]Option, 0, len(entity.ContentTypes)),
		Tones:        make([]Option, 0, len(entity.Tones)),
		Lengths:      make([]Option, 0, len(entity.Lengths)),
	}
	for _, t := range entity.ContentTypes {
		resp.ContentTypes = append(resp.ContentTypes, Option{Value: string(t), Label: t.Label()})
	}
	for _, t := range entity.Tones {
		resp.Tones = append(resp.Tones, Option{Value: string(t), Label: t.Label()})
	}
	for _, l := range entity.Lengths {
		resp.Lengths = append(resp.Lengths, Option{Value: string(l), Label: l.Label()})
	}
	return resp
}
