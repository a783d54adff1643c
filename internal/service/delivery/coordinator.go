// internal/service/delivery/coordinator.go
package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	"github.com/FabiSax12/uniflow-notification-service/internal/domain/user"
	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

// PushSender is the push channel port.
type PushSender interface {
	Send(ctx context.Context, userID string, deviceTokens []string, payload PushPayload) error
}

// EmailSender is the email channel port.
type EmailSender interface {
	Send(ctx context.Context, to string, content EmailContent) error
}

// Broadcaster is the realtime channel port.
type Broadcaster interface {
	BroadcastToUser(ctx context.Context, userID string, payload interface{}) error
}

// Result records per-channel outcomes of one fan-out.
type Result struct {
	PushSent  bool
	EmailSent bool
	Broadcast bool
}

// Coordinator resolves the recipient of a persisted, send-eligible
// notification and attempts delivery on every channel concurrently.
// One channel's failure never blocks or fails another; the coordinator
// itself only fails when user resolution fails.
type Coordinator struct {
	lookup      user.Lookup
	push        PushSender
	email       EmailSender
	broadcaster Broadcaster
	logger      *zap.Logger

	frontendURL    string
	channelTimeout time.Duration
}

func NewCoordinator(
	lookup user.Lookup,
	push PushSender,
	email EmailSender,
	broadcaster Broadcaster,
	frontendURL string,
	channelTimeout time.Duration,
	logger *zap.Logger,
) *Coordinator {
	if channelTimeout <= 0 {
		channelTimeout = 10 * time.Second
	}
	return &Coordinator{
		lookup:         lookup,
		push:           push,
		email:          email,
		broadcaster:    broadcaster,
		frontendURL:    frontendURL,
		channelTimeout: channelTimeout,
		logger:         logger,
	}
}

// Deliver fans the notification out to push, email and realtime broadcast.
// The persisted notification remains the source of truth: a lookup failure
// aborts delivery but never rolls anything back.
func (c *Coordinator) Deliver(ctx context.Context, n *notification.Notification) (Result, error) {
	u, err := c.lookup.GetUserByID(ctx, n.UserID)
	if err != nil {
		c.logger.Error("user lookup failed, skipping delivery",
			zap.String("notification_id", n.ID),
			zap.String("user_id", n.UserID),
			zap.Error(err),
		)
		if xerrors.Is(err, xerrors.ErrUserNotFound) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", xerrors.ErrLookupFailed, err)
	}

	var result Result
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		result.PushSent = c.attempt(ctx, "push", n.ID, func(ctx context.Context) error {
			return c.push.Send(ctx, u.ID, u.DeviceTokens, BuildPushPayload(n))
		})
	}()
	go func() {
		defer wg.Done()
		result.EmailSent = c.attempt(ctx, "email", n.ID, func(ctx context.Context) error {
			return c.email.Send(ctx, u.Email, BuildEmailContent(u, n, c.frontendURL))
		})
	}()
	go func() {
		defer wg.Done()
		result.Broadcast = c.attempt(ctx, "realtime", n.ID, func(ctx context.Context) error {
			return c.broadcaster.BroadcastToUser(ctx, u.ID, n)
		})
	}()
	wg.Wait()

	c.logger.Info("notification delivery settled",
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
		zap.Bool("push", result.PushSent),
		zap.Bool("email", result.EmailSent),
		zap.Bool("realtime", result.Broadcast),
	)

	return result, nil
}

// attempt runs one channel send under the channel timeout, converting
// errors and panics into a recorded failure.
func (c *Coordinator) attempt(ctx context.Context, channel, notificationID string, send func(context.Context) error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("channel send panicked",
				zap.String("channel", channel),
				zap.String("notification_id", notificationID),
				zap.Any("panic", r),
			)
			ok = false
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, c.channelTimeout)
	defer cancel()

	if err := send(sendCtx); err != nil {
		c.logger.Error("channel send failed",
			zap.String("channel", channel),
			zap.String("notification_id", notificationID),
			zap.Error(err),
		)
		return false
	}
	return true
}
