// internal/queue/sweeper.go
package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	"github.com/FabiSax12/uniflow-notification-service/internal/service/delivery"
)

// scheduledStore is the slice of the persistence layer the sweeper needs:
// the scheduled-notification query plus a way to retire the schedule
// marker once a notification has been dispatched.
type scheduledStore interface {
	FindScheduled(ctx context.Context, before time.Time) ([]notification.Notification, error)
	ClearSchedule(ctx context.Context, id string) error
}

type deliverer interface {
	Deliver(ctx context.Context, n *notification.Notification) (delivery.Result, error)
}

// Sweeper periodically dispatches notifications whose scheduled time has
// come. It plays the scheduler/cron role for deferred sends.
type Sweeper struct {
	store    scheduledStore
	delivery deliverer
	logger   *zap.Logger
	interval time.Duration
}

func NewSweeper(store scheduledStore, delivery deliverer, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		store:    store,
		delivery: delivery,
		logger:   logger,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduled-notification sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduled-notification sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	due, err := s.store.FindScheduled(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to query due notifications", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("dispatching due notifications", zap.Int("count", len(due)))

	for i := range due {
		n := &due[i]
		if _, err := s.delivery.Deliver(ctx, n); err != nil {
			// Lookup failed; keep the schedule marker so the next sweep retries.
			continue
		}
		if err := s.store.ClearSchedule(ctx, n.ID); err != nil {
			s.logger.Error("failed to retire schedule marker",
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
		}
	}
}
