// internal/domain/notification/dto.go
package notification

// DTOs

// CreateNotificationRequest is the raw inbound command shared by the HTTP
// handler and the queue consumer. Enum and timestamp fields stay strings
// here; they are parsed into value objects by the create use case.
type CreateNotificationRequest struct {
	UserID       string `json:"userId" binding:"required"`
	Title        string `json:"title" binding:"required,max=255"`
	Message      string `json:"message" binding:"required"`
	Type         string `json:"type" binding:"required"`
	Priority     string `json:"priority"`
	TaskID       string `json:"taskId,omitempty"`
	SubjectID    string `json:"subjectId,omitempty"`
	ActionURL    string `json:"actionUrl,omitempty"`
	ScheduledFor string `json:"scheduledFor,omitempty"`
}

// MarkReadResult is returned to the API layer after a successful
// read transition.
type MarkReadResult struct {
	ID       string `json:"id"`
	IsRead   bool   `json:"is_read"`
	MarkedAt string `json:"marked_at"`
}
