// File: handlers/bundle.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userRepoPkg "eisenflow/database/repository/user"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// UserRepo is exposed for the auth middleware.
	UserRepo userRepoPkg.UserRepository

	Tasks         *TaskHandler
	Events        *EventHandler
	Settings      *SettingsHandler
	Schedule      *ScheduleHandler
	CalendarSync  *CalendarSyncHandler
	Assistant     *AssistantHandler
	Users         *UserHandler
	Notifications *NotificationHandler
}

// userIDFromContext reads the id set by the auth middleware.
func userIDFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get("userID")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return "", false
	}
	id, ok := val.(string)
	if !ok || id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return "", false
	}
	return id, true
}
