// internal/service/delivery/templates.go
package delivery

import (
	"fmt"
	"strings"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	"github.com/FabiSax12/uniflow-notification-service/internal/domain/user"
)

// EmailContent is the rendered message handed to the email channel.
type EmailContent struct {
	Subject string
	HTML    string
	Text    string
}

// PushPayload is the message handed to the push channel.
type PushPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

type templateKind int

const (
	templateGeneric templateKind = iota
	templateDeadline
	templateTaskCreated
)

// templateByType maps each notification type to its email template.
// Types without an entry fall back to the generic template.
var templateByType = map[notification.Type]templateKind{
	notification.TypeDeadlineReminder: templateDeadline,
	notification.TypeTaskCreated:      templateTaskCreated,
}

func templateFor(t notification.Type) templateKind {
	return templateByType[t]
}

// BuildEmailContent selects and renders the email template for a
// notification. Pure function, no I/O.
func BuildEmailContent(u *user.User, n *notification.Notification, frontendURL string) EmailContent {
	actionURL := n.ActionURL
	if actionURL == "" && n.TaskID != "" {
		actionURL = fmt.Sprintf("%s/tasks/%s", frontendURL, n.TaskID)
	}
	if actionURL == "" {
		actionURL = frontendURL
	}

	switch templateFor(n.Type) {
	case templateDeadline:
		return deadlineReminderEmail(u.Name, n.Title, actionURL)
	case templateTaskCreated:
		return taskCreatedEmail(u.Name, n.Title, n.SubjectID, actionURL)
	default:
		return genericEmail(u.Name, n.Title, n.Message, actionURL)
	}
}

// BuildPushPayload shapes the push message for a notification.
// Pure function, no I/O.
func BuildPushPayload(n *notification.Notification) PushPayload {
	return PushPayload{
		Title: n.Title,
		Body:  n.Message,
		Data: map[string]string{
			"notificationId": n.ID,
			"type":           string(n.Type),
			"actionUrl":      n.ActionURL,
		},
	}
}

func deadlineReminderEmail(userName, taskTitle, taskURL string) EmailContent {
	subject := fmt.Sprintf("Reminder: %q is due soon", taskTitle)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your task <strong>%s</strong> is approaching its deadline.</p><p><a href=\"%s\">Open task</a></p>",
		userName, taskTitle, taskURL,
	)
	text := fmt.Sprintf("Hi %s, your task %q is approaching its deadline. %s", userName, taskTitle, taskURL)
	return EmailContent{Subject: subject, HTML: wrapHTML(subject, body), Text: text}
}

func taskCreatedEmail(userName, taskTitle, subjectID, taskURL string) EmailContent {
	subject := fmt.Sprintf("New task: %s", taskTitle)
	course := subjectID
	if course == "" {
		course = "your course"
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>A new task <strong>%s</strong> was created in %s.</p><p><a href=\"%s\">View task</a></p>",
		userName, taskTitle, course, taskURL,
	)
	text := fmt.Sprintf("Hi %s, a new task %q was created in %s. %s", userName, taskTitle, course, taskURL)
	return EmailContent{Subject: subject, HTML: wrapHTML(subject, body), Text: text}
}

func genericEmail(userName, title, message, actionURL string) EmailContent {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s</p><p><a href=\"%s\">View details</a></p>",
		userName, message, actionURL,
	)
	return EmailContent{Subject: title, HTML: wrapHTML(title, body), Text: fmt.Sprintf("Hi %s, %s %s", userName, message, actionURL)}
}

// wrapHTML puts the body into the shared email layout.
func wrapHTML(title, content string) string {
	header := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8" />
		<title>%s</title>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 30px; }
			.container { max-width: 600px; margin: auto; background: #fff; border-radius: 8px; overflow: hidden; }
			.header { background: #667eea; color: white; text-align: center; padding: 20px; font-size: 22px; }
			.body { padding: 25px; color: #333; line-height: 1.6; }
			.footer { background: #f1f1f1; color: #555; text-align: center; padding: 15px; font-size: 13px; }
		</style>
	</head>
	<body>
	<div class="container">
		<div class="header">UniFlow</div>
		<div class="body">
	`, title)

	footer := `
		</div>
		<div class="footer">UniFlow notifications</div>
	</div>
	</body>
	</html>
	`

	return header + strings.TrimSpace(content) + footer
}
