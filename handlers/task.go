// File: handlers/task.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	taskRepo "eisenflow/database/repository/task"
	"eisenflow/models"
	"eisenflow/utils"
)

// TaskHandler serves task CRUD endpoints.
type TaskHandler struct {
	Tasks taskRepo.TaskRepository
}

// CreateTaskHandler handles POST /api/tasks.
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task.UserID = userID
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.IsFixed && task.Recurrence == "" {
		task.Recurrence = models.RecurrenceNone
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := h.Tasks.Create(c.Request.Context(), &task); err != nil {
		logger.Error("Failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListTasksHandler handles GET /api/tasks.
func (h *TaskHandler) ListTasksHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list tasks", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTaskHandler handles GET /api/tasks/:id.
func (h *TaskHandler) GetTaskHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	task, err := h.Tasks.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskHandler handles PUT /api/tasks/:id.
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task.ID = c.Param("id")
	task.UserID = userID
	task.UpdatedAt = time.Now()
	if task.Status == models.StatusCompleted && task.CompletedAt == nil {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := h.Tasks.Update(c.Request.Context(), &task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		logger.Error("Failed to update task", zap.String("taskId", task.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler handles DELETE /api/tasks/:id.
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
