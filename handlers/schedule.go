// File: handlers/schedule.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eisenflow/config"
	"eisenflow/services/ics"
	"eisenflow/services/planner"
	"eisenflow/services/schedule"
	"eisenflow/utils"
)

// ScheduleHandler serves plan generation, slot previews and the ICS feed.
type ScheduleHandler struct {
	Schedule schedule.ScheduleService
	Exporter ics.ExportService
}

type generatePlanRequest struct {
	StartDate string `json:"startDate"`
	Days      int    `json:"days"`
}

func (r *generatePlanRequest) applyDefaults() {
	if r.StartDate == "" {
		r.StartDate = time.Now().Format("2006-01-02")
	}
	if r.Days == 0 {
		r.Days = config.AppConfig.PlannerDaysToPlan
	}
}

// GeneratePlanHandler handles POST /api/schedule/generate.
func (h *ScheduleHandler) GeneratePlanHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.applyDefaults()

	result, err := h.Schedule.GeneratePlan(c.Request.Context(), userID, req.StartDate, req.Days)
	if err != nil {
		var overflow *schedule.OverflowError
		switch {
		case errors.As(err, &overflow):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":         overflow.Error(),
				"culpritTitles": overflow.CulpritTitles,
			})
		case errors.Is(err, schedule.ErrNoCapacity):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, schedule.ErrInvalidWindow), errors.Is(err, planner.ErrInvalidWorkWindow), errors.Is(err, planner.ErrInvalidHorizon):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Plan generation failed", zap.String("userId", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Plan generation failed"})
		}
		return
	}
	// The stored calendar just changed; drop the matching preview entry.
	utils.GetCacheClient().Del(c.Request.Context(), fmt.Sprintf("slots:%s:%s:%d", userID, req.StartDate, req.Days))
	c.JSON(http.StatusOK, result)
}

const slotCacheTTL = 60 * time.Second

// PreviewSlotsHandler handles GET /api/schedule/slots?start=YYYY-MM-DD&days=N.
// Results are cached briefly, the preview is hit on every matrix redraw.
func (h *ScheduleHandler) PreviewSlotsHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	start, days := windowQuery(c)
	cacheKey := fmt.Sprintf("slots:%s:%s:%d", userID, start, days)
	if cached, err := utils.GetCacheClient().Get(c.Request.Context(), cacheKey).Result(); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	slots, err := h.Schedule.PreviewSlots(c.Request.Context(), userID, start, days)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidWindow) || errors.Is(err, planner.ErrInvalidHorizon) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		utils.GetLogger().Error("Slot preview failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Slot preview failed"})
		return
	}
	if slots == nil {
		slots = []planner.FreeSlot{}
	}
	if payload, err := json.Marshal(slots); err == nil {
		utils.GetCacheClient().Set(c.Request.Context(), cacheKey, payload, slotCacheTTL)
	}
	c.JSON(http.StatusOK, slots)
}

// ExportICSHandler handles GET /api/schedule/ics?start=YYYY-MM-DD&days=N.
func (h *ScheduleHandler) ExportICSHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	start, days := windowQuery(c)
	feed, err := h.Exporter.Export(c.Request.Context(), userID, start, days)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func windowQuery(c *gin.Context) (string, int) {
	start := c.DefaultQuery("start", time.Now().Format("2006-01-02"))
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(config.AppConfig.PlannerDaysToPlan)))
	if err != nil {
		days = 0
	}
	return start, days
}
