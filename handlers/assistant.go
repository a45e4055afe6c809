// File: handlers/assistant.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	taskRepo "eisenflow/database/repository/task"
	"eisenflow/models"
	ai "eisenflow/services/intelligence"
	"eisenflow/utils"
)

// AssistantHandler serves the chat assistant.
type AssistantHandler struct {
	Assistant ai.AssistantService
	Tasks     taskRepo.TaskRepository
	Context   *ai.RedisContextStore
}

// ChatHandler handles POST /api/assistant/chat. The user's tasks are passed
// along so the model can answer questions about the current workload.
func (h *AssistantHandler) ChatHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.UserID = userID

	tasks, err := h.Tasks.ListByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to load tasks for assistant", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant unavailable"})
		return
	}

	resp, err := h.Assistant.Chat(c.Request.Context(), req, tasks)
	if err != nil {
		logger.Error("Assistant chat failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant unavailable"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClearContextHandler handles DELETE /api/assistant/context.
func (h *AssistantHandler) ClearContextHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Context.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation cleared"})
}
