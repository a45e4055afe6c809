// File: services/notification/reminders.go
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"eisenflow/models"
)

// TypeReminderSend is the asynq task type carrying a models.ReminderPayload.
const TypeReminderSend = "reminder:send"

// The scan walks a short look-ahead window. Warn reminders cover events
// starting within warnWindow; start reminders cover events whose start just
// passed, within startGrace of it.
const (
	warnWindow = 5*time.Minute + 30*time.Second
	startGrace = time.Minute
)

const isoDateTime = "2006-01-02T15:04:05"

// Scan inspects events around the current instant and enqueues the due
// reminders. It runs every minute, so each event is seen several times;
// Deliver drops duplicates.
func (s *DefaultNotificationService) Scan(ctx context.Context) error {
	now := s.now()
	lower := now.Add(-startGrace).Format(isoDateTime)
	upper := now.Add(warnWindow).Format(isoDateTime)

	events, err := s.Events.ListStartingBetween(ctx, lower, upper)
	if err != nil {
		return fmt.Errorf("scan events: %w", err)
	}

	enqueued := 0
	for _, ev := range events {
		start, err := time.ParseInLocation(isoDateTime, ev.Start, time.Local)
		if err != nil {
			continue
		}

		kind := models.ReminderKindStart
		if start.After(now) {
			kind = models.ReminderKindWarn
		}

		// Skip reminders already delivered for this event.
		exists, err := s.Notifications.Exists(ctx, ev.UserID, ev.ID, kind)
		if err != nil {
			return fmt.Errorf("check reminder: %w", err)
		}
		if exists {
			continue
		}

		payload := models.ReminderPayload{
			UserID:  ev.UserID,
			EventID: ev.ID,
			Title:   ev.Title,
			Kind:    kind,
			FireAt:  now.Format(isoDateTime),
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if _, err := s.Queue.EnqueueContext(ctx, asynq.NewTask(TypeReminderSend, raw)); err != nil {
			return fmt.Errorf("enqueue reminder: %w", err)
		}
		enqueued++
	}

	if enqueued > 0 {
		s.Logger.Info("reminder scan enqueued tasks", zap.Int("count", enqueued))
	}
	return nil
}

// Deliver writes the notification document, once per (event, kind).
func (s *DefaultNotificationService) Deliver(ctx context.Context, payload models.ReminderPayload) error {
	exists, err := s.Notifications.Exists(ctx, payload.UserID, payload.EventID, payload.Kind)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	n := &models.Notification{
		UserID:    payload.UserID,
		EventID:   payload.EventID,
		Title:     payload.Title,
		Body:      reminderBody(payload),
		Kind:      payload.Kind,
		CreatedAt: s.now(),
	}
	if err := s.Notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	s.Logger.Info("reminder delivered",
		zap.String("userId", payload.UserID),
		zap.String("eventId", payload.EventID),
		zap.String("kind", payload.Kind),
	)
	return nil
}

func reminderBody(p models.ReminderPayload) string {
	switch p.Kind {
	case models.ReminderKindWarn:
		return fmt.Sprintf("%s starts in 5 minutes", p.Title)
	case models.ReminderKindStart:
		return fmt.Sprintf("%s is starting now", p.Title)
	default:
		return p.Title
	}
}

func (s *DefaultNotificationService) ListRecent(ctx context.Context, userID string, since time.Time) ([]models.Notification, error) {
	return s.Notifications.ListRecent(ctx, userID, since)
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Notifications.MarkRead(ctx, userID, notificationID)
}
