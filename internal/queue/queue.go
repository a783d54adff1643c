// internal/queue/queue.go
package queue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Message is one consumed-but-unacknowledged queue entry. Receipt is the
// opaque token required to delete it; until deleted, the message becomes
// visible again once its visibility timeout elapses.
type Message struct {
	ID      string
	Receipt string
	Body    string // base64-encoded UTF-8 JSON
}

// Queue is the external queue port.
type Queue interface {
	Receive(ctx context.Context, maxMessages int) ([]Message, error)
	Delete(ctx context.Context, receipt string) error
}

// InboundMessage is the decoded queue payload. It exists only for the
// duration of one consume-decode-dispatch-acknowledge cycle.
type InboundMessage struct {
	Type         string `json:"type"`
	UserID       string `json:"userId"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Priority     string `json:"priority,omitempty"`
	TaskID       string `json:"taskId,omitempty"`
	SubjectID    string `json:"subjectId,omitempty"`
	ScheduledFor string `json:"scheduledFor,omitempty"`

	// Metadata carries arbitrary producer context; values can be any
	// JSON type.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Decode base64-decodes and parses a message body.
func Decode(body string) (*InboundMessage, error) {
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to base64-decode message body: %w", err)
	}

	var msg InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message body: %w", err)
	}

	return &msg, nil
}

// Encode serializes a payload into the wire format used by producers.
func Encode(msg *InboundMessage) (string, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
