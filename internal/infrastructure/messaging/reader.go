package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Reader 无消费者组的流读取，用于查看最近的审计事件
type Reader struct {
	client *redis.Client
}

// NewReader 创建流读取器
func NewReader(client *redis.Client) *Reader {
	return &Reader{client: client}
}

// Recent 返回最近 n 条消息（最新在前）
func (r *Reader) Recent(ctx context.Context, stream Stream, n int64) ([]*Message, error) {
	ctx, span := tracer.Start(ctx, "reader.Recent",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.Int64("count", n),
		))
	defer span.End()

	entries, err := r.client.XRevRangeN(ctx, string(stream), "+", "-", n).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	out := make([]*Message, 0, len(entries))
	for _, entry := range entries {
		data, ok := entry.Values["data"].(string)
		if !ok {
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, &msg)
	}
	return out, nil
}
