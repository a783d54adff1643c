// internal/repository/postgres/notification_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, title, message, type, priority, is_read, created_at, read_at, task_id, subject_id, action_url, scheduled_for`

// Save upserts the notification by id and returns the persisted row.
// The read transition is guarded at the store: a row already marked read
// never has is_read flipped back or read_at overwritten.
func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	query := fmt.Sprintf(`
		INSERT INTO notifications (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			is_read = notifications.is_read OR EXCLUDED.is_read,
			read_at = COALESCE(notifications.read_at, EXCLUDED.read_at)
		RETURNING %s
	`, notificationColumns, notificationColumns)

	row := r.db.QueryRow(
		ctx, query,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Priority,
		n.IsRead, n.CreatedAt, n.ReadAt,
		nullable(n.TaskID), nullable(n.SubjectID), nullable(n.ActionURL),
		n.ScheduledFor,
	)

	saved, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}

	return saved, nil
}

// FindByID retrieves a notification by id.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE id = $1`, notificationColumns)

	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	return n, nil
}

// FindByUserID retrieves one page of a user's notifications, newest first.
func (r *NotificationRepository) FindByUserID(ctx context.Context, userID string, opts notification.QueryOptions) (*notification.QueryResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	argPos := 2

	if opts.IsRead != nil {
		conditions = append(conditions, fmt.Sprintf("is_read = $%d", argPos))
		args = append(args, *opts.IsRead)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notifications WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, notificationColumns, whereClause, argPos, argPos+1)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	items, err := scanNotifications(rows)
	if err != nil {
		return nil, err
	}

	return &notification.QueryResult{
		Items:   items,
		Total:   total,
		HasMore: opts.Offset+opts.Limit < total,
	}, nil
}

// GetUnreadCount counts unread notifications for a user.
func (r *NotificationRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}

// Delete removes a notification by id.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// FindScheduled returns unread notifications whose scheduled time has
// passed, for the due-notification sweeper.
func (r *NotificationRepository) FindScheduled(ctx context.Context, before time.Time) ([]notification.Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications
		WHERE scheduled_for IS NOT NULL AND scheduled_for <= $1 AND is_read = false
		ORDER BY scheduled_for ASC
	`, notificationColumns)

	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to find scheduled notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// ClearSchedule retires the schedule marker after a deferred
// notification has been dispatched, so the sweeper does not pick it
// up again.
func (r *NotificationRepository) ClearSchedule(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `UPDATE notifications SET scheduled_for = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to clear schedule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner) (*notification.Notification, error) {
	var n notification.Notification
	var taskID, subjectID, actionURL *string

	err := row.Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Priority,
		&n.IsRead, &n.CreatedAt, &n.ReadAt,
		&taskID, &subjectID, &actionURL, &n.ScheduledFor,
	)
	if err != nil {
		return nil, err
	}

	if taskID != nil {
		n.TaskID = *taskID
	}
	if subjectID != nil {
		n.SubjectID = *subjectID
	}
	if actionURL != nil {
		n.ActionURL = *actionURL
	}

	return &n, nil
}

func scanNotifications(rows pgx.Rows) ([]notification.Notification, error) {
	notifications := []notification.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
