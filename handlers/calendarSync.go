// File: handlers/calendarSync.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eisenflow/config"
	"eisenflow/services/calendar"
	"eisenflow/utils"
)

// CalendarSyncHandler pulls external calendars into the event store.
type CalendarSyncHandler struct {
	Calendar calendar.CalendarService
}

type syncRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
	StartDate   string `json:"startDate"`
	Days        int    `json:"days"`
}

// SyncCalendarHandler handles POST /api/calendar/sync.
func (h *CalendarSyncHandler) SyncCalendarHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StartDate == "" {
		req.StartDate = time.Now().Format("2006-01-02")
	}
	if req.Days == 0 {
		req.Days = config.AppConfig.PlannerDaysToPlan
	}

	imported, err := h.Calendar.Sync(c.Request.Context(), userID, req.AccessToken, req.StartDate, req.Days)
	if err != nil {
		logger.Error("Calendar sync failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Calendar sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
