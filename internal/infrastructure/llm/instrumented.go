package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-content-gen-api/pkg/logger"
	"ai-content-gen-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// instrumented 为提供商调用增加追踪、指标与日志
type instrumented struct {
	Provider
}

// Instrument 包装提供商
func Instrument(p Provider) Provider {
	if _, ok := p.(*instrumented); ok {
		return p
	}
	return &instrumented{Provider: p}
}

// Generate 发起请求并记录调用指标
func (p *instrumented) Generate(ctx context.Context, req Request) (*Response, error) {
	name, model := p.Name(), p.Model()
	ctx, span := tracer.Start(ctx, "llm.Generate",
		trace.WithAttributes(
			attribute.String("llm.provider", name),
			attribute.String("llm.model", model),
			attribute.Int("llm.max_tokens", req.MaxTokens),
			attribute.Float64("llm.temperature", req.Temperature),
		))
	defer span.End()

	start := time.Now()
	resp, err := p.Provider.Generate(ctx, req)
	elapsed := time.Since(start)

	metrics.LLMCallDuration.WithLabelValues(name, model).Observe(elapsed.Seconds())
	if err != nil {
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(name, model, "error").Inc()
		logger.Warn(ctx, "llm call failed",
			"provider", name,
			"model", model,
			"duration_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	metrics.LLMCallTotal.WithLabelValues(name, model, "success").Inc()
	metrics.LLMTokensUsed.WithLabelValues(name, model, "prompt").Add(float64(resp.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(name, model, "completion").Add(float64(resp.CompletionTokens))
	span.SetAttributes(
		attribute.Int("llm.tokens_prompt", resp.PromptTokens),
		attribute.Int("llm.tokens_completion", resp.CompletionTokens),
	)
	logger.Debug(ctx, "llm call finished",
		"provider", name,
		"model", model,
		"duration_ms", elapsed.Milliseconds(),
	)
	return resp, nil
}
