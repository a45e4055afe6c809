// File: services/notification/interface.go
package notification

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	eventRepo "eisenflow/database/repository/event"
	notificationRepo "eisenflow/database/repository/notification"
	"eisenflow/models"
)

// NotificationService produces event reminders. Scan finds events about to
// start and enqueues reminder tasks; Deliver is called by the queue worker
// and materializes the notification the client polls for.
type NotificationService interface {
	Scan(ctx context.Context) error
	Deliver(ctx context.Context, payload models.ReminderPayload) error
	ListRecent(ctx context.Context, userID string, since time.Time) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

// ReminderQueue is the slice of asynq.Client the scanner needs.
type ReminderQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultNotificationService implements NotificationService.
type DefaultNotificationService struct {
	Events        eventRepo.EventRepository
	Notifications notificationRepo.NotificationRepository
	Queue         ReminderQueue
	Logger        *zap.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultNotificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
