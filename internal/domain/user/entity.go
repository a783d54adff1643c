// internal/domain/user/entity.go
package user

import (
	"context"
	"strings"

	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

// User is a read-only projection of the identity service's student record,
// fetched for the duration of one delivery attempt.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	DeviceTokens []string `json:"deviceTokens,omitempty"`
}

// HasDeviceTokens reports whether the user is push-addressable.
func (u *User) HasDeviceTokens() bool {
	return len(u.DeviceTokens) > 0
}

// ValidateEmail applies the RFC-shaped sanity check used at the
// boundary: local part, one @, and a dotted domain.
func ValidateEmail(addr string) error {
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return xerrors.Wrap(xerrors.ErrInvalidEmail, addr)
	}
	domain := addr[at+1:]
	if strings.Contains(domain, "@") || !strings.Contains(domain, ".") ||
		strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return xerrors.Wrap(xerrors.ErrInvalidEmail, addr)
	}
	return nil
}

// Lookup resolves recipients for delivery. Implementations fail with
// xerrors.ErrUserNotFound when the backing identity source has no such user.
type Lookup interface {
	GetUserByID(ctx context.Context, userID string) (*User, error)
	Invalidate(ctx context.Context, userID string) error
}
