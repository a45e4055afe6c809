// File: services/schedule/interface.go
package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	eventRepo "eisenflow/database/repository/event"
	settingsRepo "eisenflow/database/repository/settings"
	taskRepo "eisenflow/database/repository/task"
	"eisenflow/models"
	ai "eisenflow/services/intelligence"
	"eisenflow/services/planner"
)

// ScheduleService drives one planning cycle: snapshot tasks, events and
// settings, expand recurring fixed tasks, carve free slots, delegate slot
// assignment to the engine and merge the result back into the stored
// calendar.
type ScheduleService interface {
	GeneratePlan(ctx context.Context, userID, startDate string, days int) (*models.PlanResult, error)
	// PreviewSlots exposes the free-slot computation without invoking the
	// engine or touching stored events.
	PreviewSlots(ctx context.Context, userID, startDate string, days int) ([]planner.FreeSlot, error)
}

// DefaultScheduleService implements ScheduleService.
type DefaultScheduleService struct {
	Tasks    taskRepo.TaskRepository
	Events   eventRepo.EventRepository
	Settings settingsRepo.SettingsRepository
	Engine   ai.ScheduleEngine
	Logger   *zap.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
