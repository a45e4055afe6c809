// File: handlers/notification.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eisenflow/models"
	"eisenflow/services/notification"
	"eisenflow/utils"
)

// NotificationHandler serves the reminder inbox the client polls.
type NotificationHandler struct {
	Notifications notification.NotificationService
}

// ListNotificationsHandler handles GET /api/notifications?sinceMinutes=N.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	sinceMinutes, err := strconv.Atoi(c.DefaultQuery("sinceMinutes", "60"))
	if err != nil || sinceMinutes < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sinceMinutes must be a positive integer"})
		return
	}
	since := time.Now().Add(-time.Duration(sinceMinutes) * time.Minute)

	items, err := h.Notifications.ListRecent(c.Request.Context(), userID, since)
	if err != nil {
		utils.GetLogger().Error("Failed to list notifications", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	c.JSON(http.StatusOK, items)
}

// MarkNotificationReadHandler handles PUT /api/notifications/:id/read.
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Notifications.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification read"})
}
