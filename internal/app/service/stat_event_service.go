package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"memeshare/internal/common"
	"memeshare/internal/domain/model"
)

// StatEvent asks for one counter of a meme's upload stats to be incremented.
type StatEvent struct {
	MemeID int64          `json:"meme_id"`
	Kind   model.StatKind `json:"kind"`
}

func (e StatEvent) Validate() error {
	if err := requireID("meme_id", e.MemeID); err != nil {
		return err
	}
	if !e.Kind.Valid() {
		return common.InvalidField("kind", fmt.Sprintf("unknown stat kind %q", e.Kind))
	}
	return nil
}

func DecodeStatEvent(payload string) (StatEvent, error) {
	var ev StatEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("decode stat event: %v: %w", err, common.ErrBadRequest)
	}
	return ev, ev.Validate()
}

type StatEventPublisher interface {
	Publish(ctx context.Context, ev StatEvent) error
}

// RedisStatQueue pushes stat events onto a redis list drained by the worker.
type RedisStatQueue struct {
	rdb   redis.Cmdable
	queue string
}

func NewRedisStatQueue(rdb redis.Cmdable, queue string) *RedisStatQueue {
	return &RedisStatQueue{rdb: rdb, queue: queue}
}

func (q *RedisStatQueue) Queue() string { return q.queue }

func (q *RedisStatQueue) Publish(ctx context.Context, ev StatEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode stat event: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.queue, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue stat event for meme %d: %w", ev.MemeID, err)
	}
	return nil
}
