package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ai-content-gen-api/pkg/logger"
	"ai-content-gen-api/pkg/metrics"
)

// startTimeKey 用于在 Context 中存储调用开始时间
type startTimeKey struct{}

const finishReasonUnknown = "unknown"

// newChatModelCallbackHandler 创建 ChatModel 回调处理器
//
// 调用次数、耗时与 Token 已由 llm.Instrument 统一上报，这里只补充
// Eino 节点级别的追踪 Span 与结束原因（例如 length 表示触达 max_tokens 被截断）。
func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())

			attrs := []attribute.KeyValue{
				attribute.String("llm.model", modelNameFromInput(input)),
			}
			if input != nil && input.Config != nil {
				attrs = append(attrs,
					attribute.Int("llm.max_tokens", input.Config.MaxTokens),
					attribute.Float64("llm.temperature", float64(input.Config.Temperature)),
				)
			}
			if info != nil {
				attrs = append(attrs,
					attribute.String("eino.node_name", info.Name),
					attribute.String("eino.type", info.Type),
				)
			}

			ctx, _ = otel.Tracer("eino").Start(ctx, "eino.chat_model", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			reason := finishReason(output)
			metrics.EinoFinishTotal.WithLabelValues(nodeName(info), reason).Inc()

			span := trace.SpanFromContext(ctx)
			span.SetAttributes(attribute.String("llm.finish_reason", reason))
			if output != nil && output.TokenUsage != nil {
				span.SetAttributes(
					attribute.Int("llm.prompt_tokens", output.TokenUsage.PromptTokens),
					attribute.Int("llm.completion_tokens", output.TokenUsage.CompletionTokens),
				)
			}
			span.End()

			logger.Debug(ctx, "eino chat model finished",
				"node", nodeName(info),
				"finish_reason", reason,
				"duration_ms", elapsed(ctx).Milliseconds(),
			)
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			metrics.EinoFinishTotal.WithLabelValues(nodeName(info), "error").Inc()

			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()

			logger.Debug(ctx, "eino chat model failed",
				"node", nodeName(info),
				"error", err.Error(),
				"duration_ms", elapsed(ctx).Milliseconds(),
			)
			return ctx
		},
	}
}

// elapsed 计算从 OnStart 到当前的耗时，缺少开始时间时返回 0
func elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start)
}

func modelNameFromInput(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

func finishReason(out *model.CallbackOutput) string {
	if out == nil || out.Message == nil || out.Message.ResponseMeta == nil {
		return finishReasonUnknown
	}
	if out.Message.ResponseMeta.FinishReason == "" {
		return finishReasonUnknown
	}
	return out.Message.ResponseMeta.FinishReason
}

func nodeName(info *einocb.RunInfo) string {
	if info == nil || info.Name == "" {
		return "chat_model"
	}
	return info.Name
}
