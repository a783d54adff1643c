// internal/handlers/notification/handler.go
package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/notification"
	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
	"github.com/FabiSax12/uniflow-notification-service/internal/pkg/response"
	service "github.com/FabiSax12/uniflow-notification-service/internal/service/notification"
)

type NotificationHandler struct {
	notificationService *service.Service
}

func NewNotificationHandler(notificationService *service.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// CreateNotification creates a notification and fans it out when eligible
// for immediate send.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req notification.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	n, err := h.notificationService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid notification", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create notification", err)
		return
	}

	response.Success(c, http.StatusCreated, "notification created", n)
}

// GetUserNotifications retrieves paginated notifications for a user.
func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID := c.Param("userId")

	opts := notification.QueryOptions{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			response.ValidationError(c, "invalid limit", err)
			return
		}
		opts.Limit = limit
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			response.ValidationError(c, "invalid offset", err)
			return
		}
		opts.Offset = offset
	}
	if isReadStr := c.Query("isRead"); isReadStr != "" {
		isRead, err := strconv.ParseBool(isReadStr)
		if err != nil {
			response.ValidationError(c, "invalid isRead", err)
			return
		}
		opts.IsRead = &isRead
	}

	result, err := h.notificationService.List(c.Request.Context(), userID, opts)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid query", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

// MarkAsRead marks a notification as read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id := c.Param("id")

	result, err := h.notificationService.MarkAsRead(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "notification not found")
		case errors.Is(err, xerrors.ErrAlreadyRead):
			response.Error(c, http.StatusConflict, "notification already read", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to mark as read", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", result)
}

// GetUnreadCount returns the user's unread notification count.
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.Param("userId")

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid user id", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get unread count", err)
		return
	}

	response.Success(c, http.StatusOK, "unread count retrieved", gin.H{
		"userId":      userID,
		"unreadCount": count,
	})
}

// DeleteNotification deletes a notification.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id := c.Param("id")

	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete notification", err)
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", nil)
}
