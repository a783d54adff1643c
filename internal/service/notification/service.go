// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
	"github.com/FabiSax12/uniflow-notification-service/internal/service/delivery"
)

// Deliverer fans a persisted notification out across channels.
type Deliverer interface {
	Deliver(ctx context.Context, n *notification.Notification) (delivery.Result, error)
}

// countBroadcaster pushes unread-counter updates to open sockets.
type countBroadcaster interface {
	BroadcastUnreadCount(userID string, count int)
}

// Service implements the notification use cases shared by the HTTP API
// and the queue consumer.
type Service struct {
	repo        notification.Repository
	domain      *notification.DomainService
	coordinator Deliverer
	counts      countBroadcaster
	logger      *zap.Logger
}

func NewService(
	repo notification.Repository,
	domain *notification.DomainService,
	coordinator Deliverer,
	counts countBroadcaster,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		domain:      domain,
		coordinator: coordinator,
		counts:      counts,
		logger:      logger,
	}
}

// Create validates the inbound command, persists the notification, and
// fans it out when it is eligible for immediate send. Creation succeeds
// even if every delivery channel fails; only validation and persistence
// errors are reported to the caller.
func (s *Service) Create(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	notifType, err := notification.ParseType(req.Type)
	if err != nil {
		return nil, err
	}

	priorityStr := req.Priority
	if priorityStr == "" {
		priorityStr = string(notification.PriorityMedium)
	}
	priority, err := notification.ParsePriority(priorityStr)
	if err != nil {
		return nil, err
	}

	var scheduledFor *time.Time
	if req.ScheduledFor != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			return nil, fmt.Errorf("%w: bad scheduledFor timestamp: %v", xerrors.ErrInvalidInput, err)
		}
		if err := s.domain.ValidateScheduledTime(t); err != nil {
			return nil, err
		}
		scheduledFor = &t
	}

	n, err := notification.New(notification.CreateParams{
		UserID:       req.UserID,
		Title:        req.Title,
		Message:      req.Message,
		Type:         notifType,
		Priority:     priority,
		TaskID:       req.TaskID,
		SubjectID:    req.SubjectID,
		ActionURL:    req.ActionURL,
		ScheduledFor: scheduledFor,
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.domain.ShouldSendImmediately(saved) {
		// Delivery is best-effort; the persisted row is the source of truth.
		if _, err := s.coordinator.Deliver(ctx, saved); err != nil {
			s.logger.Error("delivery aborted",
				zap.String("notification_id", saved.ID),
				zap.Error(err),
			)
		}
	}

	return saved, nil
}

// List retrieves one page of a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, opts notification.QueryOptions) (*notification.QueryResult, error) {
	if userID == "" {
		return nil, xerrors.ErrEmptyUserID
	}
	return s.repo.FindByUserID(ctx, userID, opts)
}

// MarkAsRead transitions a notification to read exactly once and pushes
// the user's updated unread counter to their sockets.
func (s *Service) MarkAsRead(ctx context.Context, id string) (*notification.MarkReadResult, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.domain.CanMarkAsRead(n) {
		return nil, xerrors.ErrAlreadyRead
	}

	if err := n.MarkAsRead(); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to mark as read: %w", err)
	}

	if s.counts != nil {
		count, err := s.repo.GetUnreadCount(ctx, saved.UserID)
		if err != nil {
			s.logger.Warn("failed to get unread count", zap.String("user_id", saved.UserID), zap.Error(err))
		} else {
			s.counts.BroadcastUnreadCount(saved.UserID, count)
		}
	}

	return &notification.MarkReadResult{
		ID:       saved.ID,
		IsRead:   true,
		MarkedAt: saved.ReadAt.Format(time.RFC3339),
	}, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, xerrors.ErrEmptyUserID
	}
	return s.repo.GetUnreadCount(ctx, userID)
}

// Delete removes a notification by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
