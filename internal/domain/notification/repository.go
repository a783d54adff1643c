// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// QueryOptions filters and paginates a per-user listing.
type QueryOptions struct {
	Limit  int
	Offset int
	IsRead *bool
}

// QueryResult is one page of a per-user listing, newest first.
type QueryResult struct {
	Items   []Notification `json:"notifications"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}

// Repository is the persistence port. Concrete stores must round-trip
// all fields unchanged; Save is an upsert by id.
type Repository interface {
	Save(ctx context.Context, n *Notification) (*Notification, error)
	FindByID(ctx context.Context, id string) (*Notification, error)
	FindByUserID(ctx context.Context, userID string, opts QueryOptions) (*QueryResult, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error
	FindScheduled(ctx context.Context, before time.Time) ([]Notification, error)
}
