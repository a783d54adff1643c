// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hub fans realtime events out to the sockets currently subscribed under
// each user's channel group. Broadcasting to a user with no open
// connection is a silent no-op.
type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	logger *zap.Logger
}

type BroadcastMessage struct {
	// UserID empty means broadcast to all connected clients.
	UserID  string
	Message *WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info("websocket client connected",
		zap.String("user_id", client.userID),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(NewMessage(EventTypeConnected, map[string]interface{}{
		"user_id": client.userID,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.userID)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("user_id", client.userID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) deliver(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.UserID == "" {
		for _, clients := range h.clients {
			for client := range clients {
				client.SendMessage(msg.Message)
			}
		}
		return
	}

	if clients, ok := h.clients[msg.UserID]; ok {
		for client := range clients {
			client.SendMessage(msg.Message)
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}

// totalClients must be called with the mutex held.
func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

// ConnectedClients returns the number of open sockets for a user.
func (h *Hub) ConnectedClients(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// BroadcastToUser emits a new_notification event to the user's sockets.
// It satisfies the delivery.Broadcaster port.
func (h *Hub) BroadcastToUser(ctx context.Context, userID string, payload interface{}) error {
	msg := NewMessage(EventTypeNotification, payload)
	select {
	case h.broadcast <- &BroadcastMessage{UserID: userID, Message: msg}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BroadcastUnreadCount pushes the user's unread counter to their sockets.
func (h *Hub) BroadcastUnreadCount(userID string, count int) {
	msg := NewMessage(EventTypeNotificationCount, map[string]interface{}{
		"unread_count": count,
	})
	h.broadcast <- &BroadcastMessage{UserID: userID, Message: msg}
}
