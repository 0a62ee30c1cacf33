// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
)

// ContentType 内容类型
type ContentType string

const (
	ContentTypeBlogPost           ContentType = "blog-post"
	ContentTypeTweet              ContentType = "tweet"
	ContentTypeEmail              ContentType = "email"
	ContentTypeSocialMediaPost    ContentType = "social-media-post"
	ContentTypeProductDescription ContentType = "product-description"
	ContentTypeArticle            ContentType = "article"
)

// ContentTypes 表单可选的内容类型（按展示顺序）
var ContentTypes = []ContentType{
	ContentTypeBlogPost,
	ContentTypeTweet,
	ContentTypeEmail,
	ContentTypeSocialMediaPost,
	ContentTypeProductDescription,
	ContentTypeArticle,
}

// Tone 语气
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
	ToneHumorous     Tone = "humorous"
	TonePersuasive   Tone = "persuasive"
	ToneInformative  Tone = "informative"
)

// Tones 表单可选的语气
var Tones = []Tone{
	ToneProfessional,
	ToneCasual,
	ToneFriendly,
	ToneFormal,
	ToneHumorous,
	TonePersuasive,
	ToneInformative,
}

// Length 篇幅
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Lengths 表单可选的篇幅
var Lengths = []Length{LengthShort, LengthMedium, LengthLong}

// MaxTokens 篇幅对应的 token 预算
// 未知篇幅与 long 一致
func (l Length) MaxTokens() int {
	switch l {
	case LengthShort:
		return 150
	case LengthMedium:
		return 300
	default:
		return 500
	}
}

// Label 篇幅的展示文案
func (l Length) Label() string {
	switch l {
	case LengthShort:
		return "Short (50-150 words)"
	case LengthMedium:
		return "Medium (150-300 words)"
	case LengthLong:
		return "Long (300-500 words)"
	default:
		return string(l)
	}
}

// Label 内容类型的展示文案，如 social-media-post -> Social Media Post
func (t ContentType) Label() string {
	return titleWords(string(t))
}

// Label 语气的展示文案
func (t Tone) Label() string {
	return titleWords(string(t))
}

func titleWords(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// FormInput 用户提交的四个表单字段
type FormInput struct {
	Topic       string      `json:"topic"`
	ContentType ContentType `json:"content_type"`
	Tone        Tone        `json:"tone"`
	Length      Length      `json:"length"`
}

// IsComplete 四个字段均非空时才允许提交
// 不做其他校验：未知的枚举值按原样透传
func (f FormInput) IsComplete() bool {
	return f.Topic != "" && f.ContentType != "" && f.Tone != "" && f.Length != ""
}

// MissingFields 返回为空的字段名
func (f FormInput) MissingFields() []string {
	var missing []string
	if f.Topic == "" {
		missing = append(missing, "topic")
	}
	if f.ContentType == "" {
		missing = append(missing, "content_type")
	}
	if f.Tone == "" {
		missing = append(missing, "tone")
	}
	if f.Length == "" {
		missing = append(missing, "length")
	}
	return missing
}

// Prompt 构建发送给生成服务的提示词
func (f FormInput) Prompt() string {
	return fmt.Sprintf(
		"Create a %s about %s. The tone should be %s and the length should be %s. Make it engaging and well-structured.",
		f.ContentType, f.Topic, f.Tone, f.Length,
	)
}
