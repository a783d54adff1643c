// internal/domain/notification/service.go
package notification

import (
	"time"

	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

// DomainService holds the time- and state-dependent business rules,
// kept free of persistence and transport so they are unit-testable
// without any I/O stub.
type DomainService struct{}

func NewDomainService() *DomainService {
	return &DomainService{}
}

// ValidateScheduledTime rejects scheduling times that are not strictly
// in the future. The boundary t == now is treated as not-in-the-future.
func (s *DomainService) ValidateScheduledTime(t time.Time) error {
	if !t.After(time.Now()) {
		return xerrors.ErrInvalidSchedule
	}
	return nil
}

// ShouldSendImmediately decides the immediate-vs-deferred send.
func (s *DomainService) ShouldSendImmediately(n *Notification) bool {
	return n.ShouldBeSentNow()
}

// CanMarkAsRead reports read-eligibility.
func (s *DomainService) CanMarkAsRead(n *Notification) bool {
	return !n.IsRead
}
