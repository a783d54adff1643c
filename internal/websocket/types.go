// internal/websocket/types.go
package websocket

import "time"

// EventType represents the real-time event types emitted to clients.
type EventType string

const (
	EventTypeConnected         EventType = "connected"
	EventTypeError             EventType = "error"
	EventTypeNotification      EventType = "new_notification"
	EventTypeNotificationCount EventType = "notification:count"
)

// WSMessage is the universal message format.
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage stamps an outbound event with the current time.
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
