package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	"github.com/FabiSax12/uniflow-notification-service/internal/domain/user"
	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

type fakeLookup struct {
	user  *user.User
	err   error
	calls int
}

func (f *fakeLookup) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	f.calls++
	return f.user, f.err
}

func (f *fakeLookup) Invalidate(ctx context.Context, userID string) error {
	return nil
}

type fakePush struct {
	err    error
	panics bool
	calls  int
}

func (f *fakePush) Send(ctx context.Context, userID string, deviceTokens []string, payload PushPayload) error {
	f.calls++
	if f.panics {
		panic("push client exploded")
	}
	return f.err
}

type fakeEmail struct {
	err   error
	calls int
}

func (f *fakeEmail) Send(ctx context.Context, to string, content EmailContent) error {
	f.calls++
	return f.err
}

type fakeBroadcaster struct {
	err   error
	calls int
}

func (f *fakeBroadcaster) BroadcastToUser(ctx context.Context, userID string, payload interface{}) error {
	f.calls++
	return f.err
}

func testUser() *user.User {
	return &user.User{
		ID:           "u1",
		Email:        "student@example.com",
		Name:         "Ana",
		DeviceTokens: []string{"tok-1"},
	}
}

func testNotification(t *testing.T) *notification.Notification {
	t.Helper()
	n, err := notification.New(notification.CreateParams{
		UserID:   "u1",
		Title:    "Exam Tomorrow",
		Message:  "Study chapter 4",
		Type:     notification.TypeExamReminder,
		Priority: notification.PriorityHigh,
	})
	require.NoError(t, err)
	return n
}

func newTestCoordinator(lookup user.Lookup, p PushSender, e EmailSender, b Broadcaster) *Coordinator {
	return NewCoordinator(lookup, p, e, b, "http://frontend", time.Second, zap.NewNop())
}

func TestDeliver_AllChannelsSucceed(t *testing.T) {
	push := &fakePush{}
	email := &fakeEmail{}
	bc := &fakeBroadcaster{}
	c := newTestCoordinator(&fakeLookup{user: testUser()}, push, email, bc)

	result, err := c.Deliver(context.Background(), testNotification(t))
	require.NoError(t, err)

	assert.Equal(t, Result{PushSent: true, EmailSent: true, Broadcast: true}, result)
	assert.Equal(t, 1, push.calls)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 1, bc.calls)
}

func TestDeliver_PushFailureIsIsolated(t *testing.T) {
	push := &fakePush{err: errors.New("gateway down")}
	email := &fakeEmail{}
	bc := &fakeBroadcaster{}
	c := newTestCoordinator(&fakeLookup{user: testUser()}, push, email, bc)

	result, err := c.Deliver(context.Background(), testNotification(t))
	require.NoError(t, err)

	assert.False(t, result.PushSent)
	assert.True(t, result.EmailSent)
	assert.True(t, result.Broadcast)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 1, bc.calls)
}

func TestDeliver_PanicIsContained(t *testing.T) {
	push := &fakePush{panics: true}
	email := &fakeEmail{}
	bc := &fakeBroadcaster{}
	c := newTestCoordinator(&fakeLookup{user: testUser()}, push, email, bc)

	result, err := c.Deliver(context.Background(), testNotification(t))
	require.NoError(t, err)

	assert.False(t, result.PushSent)
	assert.True(t, result.EmailSent)
	assert.True(t, result.Broadcast)
}

func TestDeliver_AllChannelsFail(t *testing.T) {
	push := &fakePush{err: errors.New("push down")}
	email := &fakeEmail{err: errors.New("smtp down")}
	bc := &fakeBroadcaster{err: errors.New("hub closed")}
	c := newTestCoordinator(&fakeLookup{user: testUser()}, push, email, bc)

	result, err := c.Deliver(context.Background(), testNotification(t))

	// The coordinator never fails the operation due to channel failures.
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestDeliver_LookupFailureAbortsFanOut(t *testing.T) {
	push := &fakePush{}
	email := &fakeEmail{}
	bc := &fakeBroadcaster{}
	lookup := &fakeLookup{err: xerrors.ErrUserNotFound}
	c := newTestCoordinator(lookup, push, email, bc)

	_, err := c.Deliver(context.Background(), testNotification(t))
	assert.ErrorIs(t, err, xerrors.ErrUserNotFound)

	assert.Equal(t, 1, lookup.calls)
	assert.Zero(t, push.calls)
	assert.Zero(t, email.calls)
	assert.Zero(t, bc.calls)
}

func TestDeliver_TransientLookupErrorWrapped(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("identity service timeout")}
	c := newTestCoordinator(lookup, &fakePush{}, &fakeEmail{}, &fakeBroadcaster{})

	_, err := c.Deliver(context.Background(), testNotification(t))
	assert.ErrorIs(t, err, xerrors.ErrLookupFailed)
}
