// internal/app/router.go
package app

import (
	"github.com/gin-gonic/gin"

	notifyHandler "github.com/FabiSax12/uniflow-notification-service/internal/handlers/notification"
	wsHandler "github.com/FabiSax12/uniflow-notification-service/internal/handlers/websocket"
)

type Handlers struct {
	NotifHandler *notifyHandler.NotificationHandler
	WSHandler    *wsHandler.WebSocketHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "notification-service"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	{
		notifications.POST("", h.NotifHandler.CreateNotification)
		notifications.GET("/user/:userId", h.NotifHandler.GetUserNotifications)
		notifications.GET("/user/:userId/count/unread", h.NotifHandler.GetUnreadCount)
		notifications.PATCH("/:id/read", h.NotifHandler.MarkAsRead)
		notifications.DELETE("/:id", h.NotifHandler.DeleteNotification)
	}
}
