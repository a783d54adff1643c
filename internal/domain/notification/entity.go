// internal/domain/notification/entity.go
package notification

import (
	"time"

	"github.com/google/uuid"

	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

// Type classifies a notification and drives template selection
// in the delivery layer.
type Type string

const (
	TypeDeadlineReminder Type = "deadline_reminder"
	TypeExamReminder     Type = "exam_reminder"
	TypeTaskCreated      Type = "task_created"
	TypeGradePosted      Type = "grade_posted"
)

// ParseType validates a raw string against the closed set of
// notification types.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeDeadlineReminder, TypeExamReminder, TypeTaskCreated, TypeGradePosted:
		return t, nil
	default:
		return "", xerrors.Wrap(xerrors.ErrInvalidType, s)
	}
}

// Priority is informational only; it does not gate channel choice.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", xerrors.Wrap(xerrors.ErrInvalidPriority, s)
	}
}

// Weight returns the position of the priority in the total order
// low < medium < high.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// HigherThan reports whether p outranks other.
func (p Priority) HigherThan(other Priority) bool {
	return p.Weight() > other.Weight()
}

// Notification is the aggregate root. All fields except the read state
// are set once at creation and persisted as-is on updates.
type Notification struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	Title        string     `json:"title" db:"title"`
	Message      string     `json:"message" db:"message"`
	Type         Type       `json:"type" db:"type"`
	Priority     Priority   `json:"priority" db:"priority"`
	IsRead       bool       `json:"is_read" db:"is_read"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	ReadAt       *time.Time `json:"read_at,omitempty" db:"read_at"`
	TaskID       string     `json:"task_id,omitempty" db:"task_id"`
	SubjectID    string     `json:"subject_id,omitempty" db:"subject_id"`
	ActionURL    string     `json:"action_url,omitempty" db:"action_url"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty" db:"scheduled_for"`
}

// CreateParams carries the domain-valid inputs for New. Raw strings
// coming from HTTP or the queue must be parsed into Type/Priority first.
type CreateParams struct {
	UserID       string
	Title        string
	Message      string
	Type         Type
	Priority     Priority
	TaskID       string
	SubjectID    string
	ActionURL    string
	ScheduledFor *time.Time
}

// New builds a fresh unread notification, stamping its id and creation time.
func New(p CreateParams) (*Notification, error) {
	if p.UserID == "" {
		return nil, xerrors.ErrEmptyUserID
	}
	if _, err := ParseType(string(p.Type)); err != nil {
		return nil, err
	}
	if _, err := ParsePriority(string(p.Priority)); err != nil {
		return nil, err
	}

	return &Notification{
		ID:           uuid.NewString(),
		UserID:       p.UserID,
		Title:        p.Title,
		Message:      p.Message,
		Type:         p.Type,
		Priority:     p.Priority,
		IsRead:       false,
		CreatedAt:    time.Now().UTC(),
		TaskID:       p.TaskID,
		SubjectID:    p.SubjectID,
		ActionURL:    p.ActionURL,
		ScheduledFor: p.ScheduledFor,
	}, nil
}

// MarkAsRead transitions the notification to read exactly once.
func (n *Notification) MarkAsRead() error {
	if n.IsRead {
		return xerrors.ErrAlreadyRead
	}
	now := time.Now().UTC()
	n.IsRead = true
	n.ReadAt = &now
	return nil
}

// IsScheduled reports whether the notification carries a future-send marker.
func (n *Notification) IsScheduled() bool {
	return n.ScheduledFor != nil
}

// ShouldBeSentNow is true for unscheduled notifications and for scheduled
// ones whose time has come.
func (n *Notification) ShouldBeSentNow() bool {
	if !n.IsScheduled() {
		return true
	}
	return !time.Now().Before(*n.ScheduledFor)
}
