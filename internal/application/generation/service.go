// Package generation 实现表单到生成内容的工作流以及会话历史
package generation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-content-gen-api/internal/config"
	"ai-content-gen-api/internal/domain/entity"
	"ai-content-gen-api/internal/domain/repository"
	"ai-content-gen-api/internal/infrastructure/llm"
	"ai-content-gen-api/internal/infrastructure/messaging"
	apperrors "ai-content-gen-api/pkg/errors"
	"ai-content-gen-api/pkg/logger"
	"ai-content-gen-api/pkg/metrics"
)

var tracer = otel.Tracer("generation")

const (
	defaultTemperature = 0.7
	finalSaveTimeout   = 5 * time.Second
)

// ProviderSource 按名称解析提供商，空名称为默认提供商
type ProviderSource interface {
	Get(ctx context.Context, name string) (llm.Provider, error)
}

// ProviderSourceFunc 函数适配器
type ProviderSourceFunc func(ctx context.Context, name string) (llm.Provider, error)

// Get 实现 ProviderSource
func (f ProviderSourceFunc) Get(ctx context.Context, name string) (llm.Provider, error) {
	return f(ctx, name)
}

// Publisher 生成完成事件发布
type Publisher interface {
	PublishGenerationFinished(ctx context.Context, event *messaging.GenerationFinishedMessage) (string, error)
}

// Options 工作流参数
type Options struct {
	// Provider 提供商名称，空为默认
	Provider string
	// Temperature 为 nil 时使用 0.7
	Temperature   *float64
	ErrorMessage  string
	PreviewLength int
}

// OptionsFromConfig 从配置构建工作流参数
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Provider:      cfg.LLM.DefaultProvider,
		ErrorMessage:  cfg.Generation.ErrorMessage,
		PreviewLength: cfg.Generation.PreviewLength,
	}
	if temp, ok := cfg.LLM.Temperature(opts.Provider); ok {
		opts.Temperature = &temp
	}
	return opts
}

func (o Options) withDefaults() Options {
	if o.Temperature == nil {
		temp := defaultTemperature
		o.Temperature = &temp
	}
	if o.ErrorMessage == "" {
		o.ErrorMessage = config.DefaultErrorMessage
	}
	if o.PreviewLength <= 0 {
		o.PreviewLength = 100
	}
	return o
}

// Outcome 一次提交的结果
type Outcome struct {
	View *entity.SessionView
	// Item 成功时新增的历史记录，失败时为 nil
	Item *entity.GeneratedItem
}

// Service 内容生成工作流
type Service struct {
	providers ProviderSource
	store     repository.SessionStore
	publisher Publisher
	opts      Options
	now       func() time.Time
}

// NewService 创建工作流服务，publisher 可为 nil
func NewService(providers ProviderSource, store repository.SessionStore, publisher Publisher, opts Options) *Service {
	return &Service{
		providers: providers,
		store:     store,
		publisher: publisher,
		opts:      opts.withDefaults(),
		now:       time.Now,
	}
}

// ErrorMessage 失败时展示的文案
func (s *Service) ErrorMessage() string {
	return s.opts.ErrorMessage
}

// CreateSession 创建新会话并保存空闲视图
func (s *Service) CreateSession(ctx context.Context) (string, *entity.SessionView, error) {
	sessionID := uuid.NewString()
	view := entity.NewSessionView()
	view.UpdatedAt = s.now()
	if err := s.store.SaveView(ctx, sessionID, view); err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to create session")
	}
	return sessionID, view, nil
}

// EnsureSession 会话不存在时以给定 ID 创建
func (s *Service) EnsureSession(ctx context.Context, sessionID string) (*entity.SessionView, error) {
	view, err := s.store.GetView(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load session")
	}
	if view != nil {
		return view, nil
	}
	view = entity.NewSessionView()
	view.UpdatedAt = s.now()
	if err := s.store.SaveView(ctx, sessionID, view); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to create session")
	}
	return view, nil
}

// View 返回会话当前视图
func (s *Service) View(ctx context.Context, sessionID string) (*entity.SessionView, error) {
	view, err := s.store.GetView(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load session")
	}
	if view == nil {
		return nil, apperrors.ErrSessionNotFound.WithDetail(sessionID)
	}
	return view, nil
}

// History 返回会话历史，最新在前
func (s *Service) History(ctx context.Context, sessionID string) ([]*entity.GeneratedItem, error) {
	if _, err := s.View(ctx, sessionID); err != nil {
		return nil, err
	}
	items, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load history")
	}
	return items, nil
}

// Select 将历史记录内容设为当前展示，请求状态保持不变
func (s *Service) Select(ctx context.Context, sessionID, itemID string) (*entity.SessionView, error) {
	view, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.Get(ctx, sessionID, itemID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load history item")
	}
	if item == nil {
		return nil, apperrors.ErrItemNotFound.WithDetail(itemID)
	}

	view.Show(item.Content, s.now())
	if err := s.store.SaveView(ctx, sessionID, view); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to save session view")
	}
	return view, nil
}

// Preview 截取内容前 N 个字符用于历史列表
func (s *Service) Preview(content string) string {
	return Preview(content, s.opts.PreviewLength)
}

// Preview 按字符截断，超出时追加省略号
func Preview(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}

// Submit 提交表单并发起一次生成请求
//
// 表单不完整时返回 ErrIncompleteForm，不发起请求。
// 生成失败不作为错误返回：视图状态为 failed，展示固定错误文案，历史不变。
// 外部调用不随调用方取消而中止，仅受提供商超时约束。
func (s *Service) Submit(ctx context.Context, sessionID string, input entity.FormInput) (*Outcome, error) {
	if !input.IsComplete() {
		return nil, apperrors.ErrIncompleteForm.WithDetail("missing: " + strings.Join(input.MissingFields(), ", "))
	}

	view, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)
	ctx, span := tracer.Start(ctx, "generation.Submit",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("content.type", string(input.ContentType)),
			attribute.String("content.length", string(input.Length)),
		))
	defer span.End()

	start := s.now()
	view.Begin(start)
	if err := s.store.SaveView(ctx, sessionID, view); err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to save session view")
	}

	metrics.GenerationsInFlight.Inc()
	defer metrics.GenerationsInFlight.Dec()

	providerName, content, genErr := s.generate(ctx, input)

	out := &Outcome{View: view}
	if genErr != nil {
		span.RecordError(genErr)
		logger.Warn(ctx, "content generation failed",
			"content_type", input.ContentType,
			"length", input.Length,
			"error", genErr.Error(),
		)
		view.Fail(s.opts.ErrorMessage, s.now())
	} else {
		item := entity.NewGeneratedItem(input, content, s.now())
		if err := s.store.Prepend(ctx, sessionID, item); err != nil {
			metrics.HistoryAppendTotal.WithLabelValues(s.store.Backend(), "error").Inc()
			logger.Error(ctx, "failed to append history", err, "item_id", item.ID)
		} else {
			metrics.HistoryAppendTotal.WithLabelValues(s.store.Backend(), "ok").Inc()
			out.Item = item
		}
		view.Succeed(content, s.now())
	}

	saveErr := s.saveFinalView(ctx, sessionID, view)
	if saveErr != nil {
		span.RecordError(saveErr)
		logger.Error(ctx, "failed to save session view, session left in flight", saveErr)
	}

	elapsed := s.now().Sub(start)
	metrics.GenerationTotal.WithLabelValues(string(input.ContentType), string(input.Length), string(view.State)).Inc()
	metrics.GenerationDuration.WithLabelValues(string(input.ContentType)).Observe(elapsed.Seconds())
	span.SetAttributes(attribute.String("generation.state", string(view.State)))

	s.publish(ctx, sessionID, providerName, input, out, elapsed)

	logger.Info(ctx, "content generation finished",
		"state", view.State,
		"provider", providerName,
		"duration_ms", elapsed.Milliseconds(),
	)
	if saveErr != nil {
		return nil, apperrors.Wrap(saveErr, apperrors.CodeCacheError, "failed to save session view")
	}
	return out, nil
}

// saveFinalView 写回结束状态，失败时以独立超时重试一次
// 结束状态未落盘时会话会一直停留在 in_flight
func (s *Service) saveFinalView(ctx context.Context, sessionID string, view *entity.SessionView) error {
	err := s.store.SaveView(ctx, sessionID, view)
	if err == nil {
		return nil
	}
	logger.Warn(ctx, "failed to save session view, retrying", "error", err.Error())

	retryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalSaveTimeout)
	defer cancel()
	return s.store.SaveView(retryCtx, sessionID, view)
}

// generate 发起唯一一次外部调用，返回去除首尾空白后的第一个候选文本
func (s *Service) generate(ctx context.Context, input entity.FormInput) (string, string, error) {
	provider, err := s.providers.Get(ctx, s.opts.Provider)
	if err != nil {
		return s.opts.Provider, "", apperrors.Wrap(err, apperrors.CodeLLMProviderError, "provider unavailable")
	}

	resp, err := provider.Generate(ctx, llm.Request{
		Prompt:      input.Prompt(),
		MaxTokens:   input.Length.MaxTokens(),
		Temperature: *s.opts.Temperature,
	})
	if err != nil {
		return provider.Name(), "", apperrors.Wrap(err, apperrors.CodeGenerationFailed, "content generation failed")
	}
	return provider.Name(), strings.TrimSpace(resp.Text), nil
}

func (s *Service) publish(ctx context.Context, sessionID, provider string, input entity.FormInput, out *Outcome, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}

	event := &messaging.GenerationFinishedMessage{
		SessionID:   sessionID,
		Provider:    provider,
		ContentType: string(input.ContentType),
		Tone:        string(input.Tone),
		Length:      string(input.Length),
		State:       string(out.View.State),
		DurationMs:  elapsed.Milliseconds(),
	}
	if out.Item != nil {
		event.ItemID = out.Item.ID
	}
	if rid, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		event.RequestID = rid
	}

	if _, err := s.publisher.PublishGenerationFinished(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish generation event", "error", err.Error())
	}
}
