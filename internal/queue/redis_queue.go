// internal/queue/redis_queue.go
package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	readyKey    = "notifications:queue:ready"
	messagesKey = "notifications:queue:messages"
	inflightKey = "notifications:queue:inflight"
)

// RedisQueue implements the Queue port on redis with visibility-timeout
// semantics: received messages are hidden for VisibilityTimeout and
// reappear on the ready list unless deleted first.
//
// Layout: a LIST of ready message ids, a HASH id -> body, and a ZSET of
// inflight ids scored by their visibility deadline. Producers are
// external; they push an id onto the ready list after storing its body
// in the hash.
type RedisQueue struct {
	client            *redis.Client
	visibilityTimeout time.Duration
}

func NewRedisQueue(client *redis.Client, visibilityTimeout time.Duration) *RedisQueue {
	if visibilityTimeout <= 0 {
		visibilityTimeout = 60 * time.Second
	}
	return &RedisQueue{
		client:            client,
		visibilityTimeout: visibilityTimeout,
	}
}

// Receive returns up to maxMessages entries, hiding each for the
// visibility timeout. Expired inflight entries are re-queued first.
func (q *RedisQueue) Receive(ctx context.Context, maxMessages int) ([]Message, error) {
	if err := q.requeueExpired(ctx); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(q.visibilityTimeout).Unix()
	messages := make([]Message, 0, maxMessages)

	for len(messages) < maxMessages {
		id, err := q.client.RPop(ctx, readyKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to pop from queue: %w", err)
		}

		body, err := q.client.HGet(ctx, messagesKey, id).Result()
		if errors.Is(err, redis.Nil) {
			// Body already deleted; drop the orphaned id.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load message body: %w", err)
		}

		if err := q.client.ZAdd(ctx, inflightKey, redis.Z{
			Score:  float64(deadline),
			Member: id,
		}).Err(); err != nil {
			return nil, fmt.Errorf("failed to mark message inflight: %w", err)
		}

		messages = append(messages, Message{ID: id, Receipt: id, Body: body})
	}

	return messages, nil
}

// Delete acknowledges a message so it is never redelivered.
func (q *RedisQueue) Delete(ctx context.Context, receipt string) error {
	if err := q.client.ZRem(ctx, inflightKey, receipt).Err(); err != nil {
		return fmt.Errorf("failed to remove inflight marker: %w", err)
	}
	if err := q.client.HDel(ctx, messagesKey, receipt).Err(); err != nil {
		return fmt.Errorf("failed to delete message body: %w", err)
	}
	return nil
}

// requeueExpired moves inflight messages whose visibility deadline has
// passed back onto the ready list.
func (q *RedisQueue) requeueExpired(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	expired, err := q.client.ZRangeByScore(ctx, inflightKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to scan inflight messages: %w", err)
	}

	for _, id := range expired {
		removed, err := q.client.ZRem(ctx, inflightKey, id).Result()
		if err != nil {
			return fmt.Errorf("failed to reclaim inflight message: %w", err)
		}
		// Another consumer may have reclaimed or deleted it first.
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, readyKey, id).Err(); err != nil {
			return fmt.Errorf("failed to requeue message: %w", err)
		}
	}

	return nil
}
