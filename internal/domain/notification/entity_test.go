package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

func validParams() CreateParams {
	return CreateParams{
		UserID:   "u1",
		Title:    "Exam Tomorrow",
		Message:  "Don't forget to study",
		Type:     TypeExamReminder,
		Priority: PriorityHigh,
	}
}

func TestNew_Defaults(t *testing.T) {
	n, err := New(validParams())
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "u1", n.UserID)
	assert.False(t, n.IsRead)
	assert.Nil(t, n.ReadAt)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Nil(t, n.ScheduledFor)
}

func TestNew_EmptyUserID(t *testing.T) {
	p := validParams()
	p.UserID = ""

	_, err := New(p)
	assert.ErrorIs(t, err, xerrors.ErrEmptyUserID)
}

func TestNew_InvalidEnums(t *testing.T) {
	p := validParams()
	p.Type = "sms_blast"
	_, err := New(p)
	assert.ErrorIs(t, err, xerrors.ErrInvalidType)

	p = validParams()
	p.Priority = "urgent"
	_, err = New(p)
	assert.ErrorIs(t, err, xerrors.ErrInvalidPriority)
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"deadline_reminder", TypeDeadlineReminder, false},
		{"exam_reminder", TypeExamReminder, false},
		{"task_created", TypeTaskCreated, false},
		{"grade_posted", TypeGradePosted, false},
		{"", "", true},
		{"DEADLINE_REMINDER", "", true},
		{"unknown", "", true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, xerrors.ErrInvalidType, "input %q", tt.input)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestPriority_Order(t *testing.T) {
	assert.True(t, PriorityHigh.HigherThan(PriorityMedium))
	assert.True(t, PriorityMedium.HigherThan(PriorityLow))
	assert.True(t, PriorityHigh.HigherThan(PriorityLow))
	assert.False(t, PriorityLow.HigherThan(PriorityHigh))
	assert.False(t, PriorityMedium.HigherThan(PriorityMedium))
}

func TestMarkAsRead_Once(t *testing.T) {
	n, err := New(validParams())
	require.NoError(t, err)

	require.NoError(t, n.MarkAsRead())

	assert.True(t, n.IsRead)
	require.NotNil(t, n.ReadAt)
	assert.False(t, n.ReadAt.Before(n.CreatedAt))
}

func TestMarkAsRead_Twice(t *testing.T) {
	n, err := New(validParams())
	require.NoError(t, err)

	require.NoError(t, n.MarkAsRead())
	assert.ErrorIs(t, n.MarkAsRead(), xerrors.ErrAlreadyRead)
}

func TestShouldBeSentNow(t *testing.T) {
	n, err := New(validParams())
	require.NoError(t, err)
	assert.False(t, n.IsScheduled())
	assert.True(t, n.ShouldBeSentNow())

	future := time.Now().Add(time.Hour)
	n.ScheduledFor = &future
	assert.True(t, n.IsScheduled())
	assert.False(t, n.ShouldBeSentNow())

	past := time.Now().Add(-time.Minute)
	n.ScheduledFor = &past
	assert.True(t, n.ShouldBeSentNow())
}
