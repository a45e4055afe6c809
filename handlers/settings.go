// File: handlers/settings.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	settingsRepo "eisenflow/database/repository/settings"
	"eisenflow/models"
	"eisenflow/utils"
)

// SettingsHandler serves planner settings.
type SettingsHandler struct {
	Settings settingsRepo.SettingsRepository
}

// GetSettingsHandler handles GET /api/settings.
func (h *SettingsHandler) GetSettingsHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	settings, err := h.Settings.Get(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("Failed to load settings", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsHandler handles PUT /api/settings.
func (h *SettingsHandler) UpdateSettingsHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var settings models.PlannerSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if settings.DayStartHour < 0 || settings.DayEndHour > 23 || settings.DayStartHour >= settings.DayEndHour {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dayStartHour must be before dayEndHour, within 0-23"})
		return
	}
	if settings.DaysToPlan < 1 || settings.DaysToPlan > 31 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "daysToPlan must be between 1 and 31"})
		return
	}
	settings.UserID = userID

	if err := h.Settings.Upsert(c.Request.Context(), &settings); err != nil {
		utils.GetLogger().Error("Failed to save settings", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
