// File: handlers/event.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	eventRepo "eisenflow/database/repository/event"
	"eisenflow/models"
	"eisenflow/utils"
)

// EventHandler serves the stored calendar.
type EventHandler struct {
	Events eventRepo.EventRepository
}

// ListEventsHandler handles GET /api/events?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *EventHandler) ListEventsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	start := c.Query("start")
	end := c.Query("end")
	if !validDate(start) || !validDate(end) || end <= start {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be YYYY-MM-DD dates with start < end"})
		return
	}

	events, err := h.Events.ListByUserInWindow(c.Request.Context(), userID, start, end)
	if err != nil {
		logger.Error("Failed to list events", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events"})
		return
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// CreateEventHandler handles POST /api/events, for manually pinned fixed
// events such as one-off appointments.
func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var ev models.CalendarEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ev.Title == "" || ev.Start == "" || ev.End == "" || ev.End <= ev.Start {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, start and end are required, with start < end"})
		return
	}
	ev.UserID = userID
	ev.IsFixed = true
	if ev.Type == "" {
		ev.Type = models.EventTypeMeeting
	}

	if err := h.Events.UpsertMany(c.Request.Context(), userID, []models.CalendarEvent{ev}); err != nil {
		utils.GetLogger().Error("Failed to store event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event stored"})
}

// DeleteEventHandler handles DELETE /api/events/:id.
func (h *EventHandler) DeleteEventHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Events.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
