// File: services/intelligence/interface.go
package ai

import (
	"context"

	"eisenflow/models"
	"eisenflow/services/planner"
)

// ScheduleEngine is the opaque scheduling brain. It receives the free slots
// and the ranked flexible tasks and returns a proposed plan, or an overflow
// verdict when the tasks cannot fit. The slot-to-task assignment itself is
// entirely the engine's; callers only pre-compute constraints and
// post-validate the result.
type ScheduleEngine interface {
	ProposePlan(ctx context.Context, slots []planner.FreeSlot, tasks []models.Task, windowStart string, days int) (*models.EnginePlan, error)
}

// AssistantService answers task-aware chat messages and may instruct the
// client to create a task.
type AssistantService interface {
	Chat(ctx context.Context, req models.AssistantRequest, tasks []models.Task) (*models.AssistantResponse, error)
}
