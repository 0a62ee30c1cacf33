package entity

import (
	"strings"
	"testing"
	"time"
)

func TestLengthMaxTokens(t *testing.T) {
	tests := []struct {
		length Length
		want   int
	}{
		{LengthShort, 150},
		{LengthMedium, 300},
		{LengthLong, 500},
	}
	for _, tt := range tests {
		if got := tt.length.MaxTokens(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.length, tt.want, got)
		}
	}
}

func TestFormInputIsComplete(t *testing.T) {
	full := FormInput{Topic: "go", ContentType: ContentTypeTweet, Tone: ToneCasual, Length: LengthShort}
	if !full.IsComplete() {
		t.Fatal("expected complete form")
	}

	cases := map[string]FormInput{
		"topic":        {ContentType: ContentTypeTweet, Tone: ToneCasual, Length: LengthShort},
		"content_type": {Topic: "go", Tone: ToneCasual, Length: LengthShort},
		"tone":         {Topic: "go", ContentType: ContentTypeTweet, Length: LengthShort},
		"length":       {Topic: "go", ContentType: ContentTypeTweet, Tone: ToneCasual},
	}
	for field, in := range cases {
		if in.IsComplete() {
			t.Errorf("expected incomplete form when %s is empty", field)
		}
		missing := in.MissingFields()
		if len(missing) != 1 || missing[0] != field {
			t.Errorf("expected missing [%s], got %v", field, missing)
		}
	}
}

func TestFormInputPrompt(t *testing.T) {
	in := FormInput{
		Topic:       "remote work",
		ContentType: ContentTypeBlogPost,
		Tone:        ToneFriendly,
		Length:      LengthMedium,
	}
	want := "Create a blog-post about remote work. The tone should be friendly and the length should be medium. Make it engaging and well-structured."
	if got := in.Prompt(); got != want {
		t.Errorf("unexpected prompt:\n got: %s\nwant: %s", got, want)
	}

	custom := FormInput{Topic: "x", ContentType: "haiku", Tone: "wistful", Length: "epic"}
	for _, v := range []string{"x", "haiku", "wistful", "epic"} {
		if !strings.Contains(custom.Prompt(), v) {
			t.Errorf("expected prompt to contain %q verbatim", v)
		}
	}
}

func TestLabels(t *testing.T) {
	if got := ContentTypeSocialMediaPost.Label(); got != "Social Media Post" {
		t.Errorf("unexpected label %q", got)
	}
	if got := ToneHumorous.Label(); got != "Humorous" {
		t.Errorf("unexpected label %q", got)
	}
	if got := LengthShort.Label(); got != "Short (50-150 words)" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestNewGeneratedItemCopiesInput(t *testing.T) {
	in := FormInput{Topic: "t", ContentType: ContentTypeEmail, Tone: ToneFormal, Length: LengthLong}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	a := NewGeneratedItem(in, "body", now)
	b := NewGeneratedItem(in, "body", now)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Topic != in.Topic || a.ContentType != in.ContentType || a.Tone != in.Tone || a.Length != in.Length {
		t.Errorf("expected input snapshot, got %+v", a)
	}
	if !a.Timestamp.Equal(now) || a.Content != "body" {
		t.Errorf("unexpected item %+v", a)
	}
}

func TestSessionViewTransitions(t *testing.T) {
	v := NewSessionView()
	if v.State != RequestStateIdle || v.Generating() {
		t.Fatalf("expected idle view, got %+v", v)
	}

	now := time.Now()
	v.Begin(now)
	if !v.Generating() {
		t.Fatal("expected generating after Begin")
	}

	v.Fail("oops", now)
	if v.Generating() || v.State != RequestStateFailed || v.Display != "oops" {
		t.Fatalf("unexpected view after Fail: %+v", v)
	}

	v.Begin(now)
	v.Show("from history", now)
	if v.State != RequestStateInFlight || v.Display != "from history" {
		t.Fatalf("Show must not change state: %+v", v)
	}
}
