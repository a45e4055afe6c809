// File: services/notification/reminders_test.go
package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eisenflow/models"
)

type windowEventRepo struct {
	events []models.CalendarEvent
	lower  string
	upper  string
}

func (w *windowEventRepo) UpsertMany(ctx context.Context, userID string, events []models.CalendarEvent) error {
	return nil
}
func (w *windowEventRepo) ListByUserInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error) {
	return nil, nil
}
func (w *windowEventRepo) ListFixedInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error) {
	return nil, nil
}
func (w *windowEventRepo) ListStartingBetween(ctx context.Context, startISO, endISO string) ([]models.CalendarEvent, error) {
	w.lower = startISO
	w.upper = endISO
	var hits []models.CalendarEvent
	for _, ev := range w.events {
		if ev.Start >= startISO && ev.Start < endISO {
			hits = append(hits, ev)
		}
	}
	return hits, nil
}
func (w *windowEventRepo) ReplaceWindow(ctx context.Context, userID, startDate, endDate string, events []models.CalendarEvent) error {
	return nil
}
func (w *windowEventRepo) Delete(ctx context.Context, userID, eventID string) error { return nil }

type memNotificationRepo struct {
	created   []models.Notification
	delivered map[string]bool
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{delivered: map[string]bool{}}
}

func (m *memNotificationRepo) key(userID, eventID, kind string) string {
	return userID + "|" + eventID + "|" + kind
}
func (m *memNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	m.created = append(m.created, *n)
	m.delivered[m.key(n.UserID, n.EventID, n.Kind)] = true
	return nil
}
func (m *memNotificationRepo) ListRecent(ctx context.Context, userID string, since time.Time) ([]models.Notification, error) {
	return m.created, nil
}
func (m *memNotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	return nil
}
func (m *memNotificationRepo) Exists(ctx context.Context, userID, eventID, kind string) (bool, error) {
	return m.delivered[m.key(userID, eventID, kind)], nil
}

type memQueue struct {
	tasks []*asynq.Task
}

func (q *memQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newScanService(events []models.CalendarEvent, now time.Time) (*DefaultNotificationService, *memQueue, *memNotificationRepo) {
	queue := &memQueue{}
	repo := newMemNotificationRepo()
	svc := &DefaultNotificationService{
		Events:        &windowEventRepo{events: events},
		Notifications: repo,
		Queue:         queue,
		Logger:        zap.NewNop(),
		Now:           func() time.Time { return now },
	}
	return svc, queue, repo
}

func decodePayload(t *testing.T, task *asynq.Task) models.ReminderPayload {
	t.Helper()
	var p models.ReminderPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	return p
}

func TestScanEnqueuesWarnAndStartReminders(t *testing.T) {
	now := time.Date(2025, 3, 3, 11, 55, 0, 0, time.Local)
	events := []models.CalendarEvent{
		{ID: "ev-soon", UserID: "u1", Title: "Standup", Start: "2025-03-03T12:00:00"},
		{ID: "ev-now", UserID: "u2", Title: "Review", Start: "2025-03-03T11:55:00"},
		{ID: "ev-later", UserID: "u1", Title: "Lunch", Start: "2025-03-03T13:00:00"},
		{ID: "ev-past", UserID: "u1", Title: "Gone", Start: "2025-03-03T11:00:00"},
	}
	svc, queue, _ := newScanService(events, now)

	require.NoError(t, svc.Scan(context.Background()))
	require.Len(t, queue.tasks, 2)

	warn := decodePayload(t, queue.tasks[0])
	assert.Equal(t, "ev-soon", warn.EventID)
	assert.Equal(t, models.ReminderKindWarn, warn.Kind)

	start := decodePayload(t, queue.tasks[1])
	assert.Equal(t, "ev-now", start.EventID)
	assert.Equal(t, models.ReminderKindStart, start.Kind)
}

func TestScanSkipsAlreadyDelivered(t *testing.T) {
	now := time.Date(2025, 3, 3, 11, 55, 0, 0, time.Local)
	events := []models.CalendarEvent{
		{ID: "ev-soon", UserID: "u1", Title: "Standup", Start: "2025-03-03T12:00:00"},
	}
	svc, queue, repo := newScanService(events, now)
	repo.delivered[repo.key("u1", "ev-soon", models.ReminderKindWarn)] = true

	require.NoError(t, svc.Scan(context.Background()))
	assert.Empty(t, queue.tasks)
}

func TestDeliverWritesOncePerKind(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.Local)
	svc, _, repo := newScanService(nil, now)

	payload := models.ReminderPayload{
		UserID: "u1", EventID: "ev-soon", Title: "Standup", Kind: models.ReminderKindWarn,
	}
	require.NoError(t, svc.Deliver(context.Background(), payload))
	require.NoError(t, svc.Deliver(context.Background(), payload))

	require.Len(t, repo.created, 1)
	assert.Equal(t, "Standup starts in 5 minutes", repo.created[0].Body)

	payload.Kind = models.ReminderKindStart
	require.NoError(t, svc.Deliver(context.Background(), payload))
	require.Len(t, repo.created, 2)
	assert.Equal(t, "Standup is starting now", repo.created[1].Body)
}
