// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/pkg/response"
	ws "github.com/FabiSax12/uniflow-notification-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection upgrades the request and subscribes the socket under
// the user's channel group. Identity comes from the userId query
// parameter; authentication is the caller's concern.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "missing userId", nil)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
