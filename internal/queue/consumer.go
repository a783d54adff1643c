// internal/queue/consumer.go
package queue

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
)

// creator is the shared creation path also used by the HTTP API.
type creator interface {
	Create(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

// Consumer polls the external queue on a fixed interval, decodes each
// message, dispatches it through the creation path, and acknowledges it
// only after successful processing. Failed messages are left un-deleted
// and reappear after the visibility timeout, which is the only retry
// mechanism: each cycle is independent and a processing error never
// terminates the loop.
type Consumer struct {
	queue        Queue
	service      creator
	logger       *zap.Logger
	pollInterval time.Duration
	batchSize    int

	// Guards against overlapping ticks: a tick is skipped while the
	// previous batch is still being processed.
	busy atomic.Bool
}

func NewConsumer(q Queue, service creator, pollInterval time.Duration, batchSize int, logger *zap.Logger) *Consumer {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Consumer{
		queue:        q,
		service:      service,
		logger:       logger,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.logger.Info("queue consumer started",
		zap.Duration("poll_interval", c.pollInterval),
		zap.Int("batch_size", c.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("queue consumer stopped")
			return
		case <-ticker.C:
			if !c.busy.CompareAndSwap(false, true) {
				c.logger.Debug("previous batch still running, skipping tick")
				continue
			}
			c.processBatch(ctx)
			c.busy.Store(false)
		}
	}
}

// processBatch runs one poll-decode-dispatch-acknowledge cycle. One
// message's failure never prevents the rest of the batch from being
// processed.
func (c *Consumer) processBatch(ctx context.Context) {
	messages, err := c.queue.Receive(ctx, c.batchSize)
	if err != nil {
		c.logger.Error("queue poll failed", zap.Error(err))
		return
	}

	// Empty poll is a silent no-op.
	if len(messages) == 0 {
		return
	}

	c.logger.Info("processing queue messages", zap.Int("count", len(messages)))

	for _, msg := range messages {
		if err := c.processMessage(ctx, msg); err != nil {
			c.logger.Error("message processing failed, leaving for redelivery",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
			continue
		}

		if err := c.queue.Delete(ctx, msg.Receipt); err != nil {
			c.logger.Error("failed to acknowledge message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg Message) error {
	decoded, err := Decode(msg.Body)
	if err != nil {
		return err
	}

	req := &notification.CreateNotificationRequest{
		UserID:       decoded.UserID,
		Title:        decoded.Title,
		Message:      decoded.Message,
		Type:         decoded.Type,
		Priority:     decoded.Priority,
		TaskID:       decoded.TaskID,
		SubjectID:    decoded.SubjectID,
		ScheduledFor: decoded.ScheduledFor,
	}

	if _, err := c.service.Create(ctx, req); err != nil {
		return err
	}

	return nil
}
