package messaging

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPublishAndReadRecent(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	producer := NewProducer(rdb, 100)
	for _, state := range []string{"succeeded", "failed"} {
		_, err := producer.PublishGenerationFinished(ctx, &GenerationFinishedMessage{
			SessionID:   "s1",
			Provider:    "mock",
			ContentType: "tweet",
			Tone:        "casual",
			Length:      "short",
			State:       state,
			DurationMs:  12,
		})
		if err != nil {
			t.Fatalf("PublishGenerationFinished: %v", err)
		}
	}

	msgs, err := NewReader(rdb).Recent(ctx, StreamContentGenerated, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	latest := msgs[0]
	if latest.Type != TypeGenerationFinished || latest.SessionID != "s1" {
		t.Errorf("unexpected message %+v", latest)
	}
	if latest.GetMetadata("state") != "failed" {
		t.Errorf("expected newest message first, got state %q", latest.GetMetadata("state"))
	}

	var payload GenerationFinishedMessage
	if err := latest.UnmarshalPayload(&payload); err != nil {
		t.Fatalf("UnmarshalPayload: %v", err)
	}
	if payload.ContentType != "tweet" || payload.DurationMs != 12 {
		t.Errorf("unexpected payload %+v", payload)
	}
}
