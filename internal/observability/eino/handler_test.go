package eino

import (
	"context"
	"errors"
	"testing"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

func TestFinishReason(t *testing.T) {
	tests := []struct {
		name string
		out  *model.CallbackOutput
		want string
	}{
		{"nil output", nil, finishReasonUnknown},
		{"nil message", &model.CallbackOutput{}, finishReasonUnknown},
		{"no meta", &model.CallbackOutput{Message: schema.AssistantMessage("hi", nil)}, finishReasonUnknown},
		{
			"length",
			&model.CallbackOutput{Message: &schema.Message{
				Role:         schema.Assistant,
				ResponseMeta: &schema.ResponseMeta{FinishReason: "length"},
			}},
			"length",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := finishReason(tt.out); got != tt.want {
				t.Errorf("finishReason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatModelCallbackHandler_Lifecycle(t *testing.T) {
	h := newChatModelCallbackHandler()
	info := &einocb.RunInfo{Name: "cohere-compat", Type: "OpenAI"}

	ctx := h.OnStart(context.Background(), info, &model.CallbackInput{
		Config: &model.Config{Model: "gpt-4o-mini", MaxTokens: 300, Temperature: 0.7},
	})
	if _, ok := ctx.Value(startTimeKey{}).(time.Time); !ok {
		t.Fatal("expected start time in context")
	}

	end := h.OnEnd(ctx, info, &model.CallbackOutput{
		Message:    &schema.Message{Role: schema.Assistant, ResponseMeta: &schema.ResponseMeta{FinishReason: "stop"}},
		TokenUsage: &model.TokenUsage{PromptTokens: 12, CompletionTokens: 40},
	})
	if end != ctx {
		t.Error("OnEnd should return the same context")
	}

	failed := h.OnError(ctx, nil, errors.New("boom"))
	if failed != ctx {
		t.Error("OnError should return the same context")
	}
}

func TestElapsed_NoStart(t *testing.T) {
	if d := elapsed(context.Background()); d != 0 {
		t.Errorf("elapsed() = %v, want 0", d)
	}
}

func TestNodeName(t *testing.T) {
	if got := nodeName(nil); got != "chat_model" {
		t.Errorf("nodeName(nil) = %q", got)
	}
	if got := nodeName(&einocb.RunInfo{Name: "eino"}); got != "eino" {
		t.Errorf("nodeName() = %q", got)
	}
}

func TestInit_Idempotent(t *testing.T) {
	Init()
	Init()
}
