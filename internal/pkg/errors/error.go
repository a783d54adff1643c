package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")

	// Domain errors
	ErrInvalidType     = fmt.Errorf("%w: invalid notification type", ErrInvalidInput)
	ErrInvalidPriority = fmt.Errorf("%w: invalid priority", ErrInvalidInput)
	ErrEmptyUserID     = fmt.Errorf("%w: user id cannot be empty", ErrInvalidInput)
	ErrInvalidEmail    = fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	ErrInvalidSchedule = fmt.Errorf("%w: scheduled time must be in the future", ErrInvalidInput)
	ErrAlreadyRead     = errors.New("notification is already marked as read")

	// Delivery errors
	ErrUserNotFound = errors.New("user not found")
	ErrLookupFailed = errors.New("user lookup failed")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
