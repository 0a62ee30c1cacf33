package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	input []*schema.Message
	opts  *model.Options
	reply *schema.Message
	err   error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	f.opts = model.GetCommonOptions(nil, opts...)
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestEinoProviderGenerate(t *testing.T) {
	reply := schema.AssistantMessage(" chat reply ", nil)
	reply.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 7, CompletionTokens: 5}}
	fake := &fakeChatModel{reply: reply}

	p := newEinoProviderWithModel("eino", "gpt-4o-mini", fake)
	resp, err := p.Generate(context.Background(), Request{Prompt: "hello", MaxTokens: 300, Temperature: 0.7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(fake.input) != 1 || fake.input[0].Role != schema.User || fake.input[0].Content != "hello" {
		t.Errorf("expected single user message, got %+v", fake.input)
	}
	if fake.opts.MaxTokens == nil || *fake.opts.MaxTokens != 300 {
		t.Errorf("expected max tokens option 300, got %v", fake.opts.MaxTokens)
	}
	if fake.opts.Temperature == nil || *fake.opts.Temperature != float32(0.7) {
		t.Errorf("expected temperature option 0.7, got %v", fake.opts.Temperature)
	}
	if resp.Text != " chat reply " || resp.PromptTokens != 7 || resp.CompletionTokens != 5 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestEinoProviderNilMessage(t *testing.T) {
	p := newEinoProviderWithModel("eino", "m", &fakeChatModel{})
	if _, err := p.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}
