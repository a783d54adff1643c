package delivery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	"github.com/FabiSax12/uniflow-notification-service/internal/domain/user"
)

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		notifType notification.Type
		want      templateKind
	}{
		{notification.TypeDeadlineReminder, templateDeadline},
		{notification.TypeTaskCreated, templateTaskCreated},
		{notification.TypeExamReminder, templateGeneric},
		{notification.TypeGradePosted, templateGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, templateFor(tt.notifType), "type %s", tt.notifType)
	}
}

func TestBuildEmailContent_DeadlineTemplate(t *testing.T) {
	u := &user.User{ID: "u1", Email: "a@b.com", Name: "Ana"}
	n := &notification.Notification{
		ID:      "n1",
		Title:   "Essay",
		Message: "Due soon",
		Type:    notification.TypeDeadlineReminder,
		TaskID:  "t42",
	}

	content := BuildEmailContent(u, n, "http://frontend")

	assert.Contains(t, content.Subject, "Essay")
	assert.Contains(t, content.HTML, "Ana")
	assert.Contains(t, content.HTML, "http://frontend/tasks/t42")
	assert.Contains(t, content.Text, "deadline")
}

func TestBuildEmailContent_GenericFallsBackToTitle(t *testing.T) {
	u := &user.User{ID: "u1", Email: "a@b.com", Name: "Ana"}
	n := &notification.Notification{
		ID:      "n1",
		Title:   "Grade posted",
		Message: "You got an A",
		Type:    notification.TypeGradePosted,
	}

	content := BuildEmailContent(u, n, "http://frontend")

	assert.Equal(t, "Grade posted", content.Subject)
	assert.Contains(t, content.HTML, "You got an A")
	// No task context, the action link falls back to the frontend root.
	assert.Contains(t, content.HTML, "http://frontend")
}

func TestBuildEmailContent_ExplicitActionURLWins(t *testing.T) {
	u := &user.User{ID: "u1", Email: "a@b.com", Name: "Ana"}
	n := &notification.Notification{
		ID:        "n1",
		Title:     "Essay",
		Message:   "Due soon",
		Type:      notification.TypeDeadlineReminder,
		TaskID:    "t42",
		ActionURL: "http://frontend/custom",
	}

	content := BuildEmailContent(u, n, "http://frontend")
	assert.Contains(t, content.HTML, "http://frontend/custom")
	assert.False(t, strings.Contains(content.HTML, "/tasks/t42"))
}

func TestBuildPushPayload(t *testing.T) {
	n := &notification.Notification{
		ID:        "n1",
		Title:     "Essay",
		Message:   "Due soon",
		Type:      notification.TypeDeadlineReminder,
		ActionURL: "http://frontend/tasks/t42",
	}

	payload := BuildPushPayload(n)

	assert.Equal(t, "Essay", payload.Title)
	assert.Equal(t, "Due soon", payload.Body)
	assert.Equal(t, "n1", payload.Data["notificationId"])
	assert.Equal(t, "deadline_reminder", payload.Data["type"])
	assert.Equal(t, "http://frontend/tasks/t42", payload.Data["actionUrl"])
}
