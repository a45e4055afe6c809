// File: services/schedule/scheduler_test.go
package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eisenflow/models"
	"eisenflow/services/planner"
)

type fakeTaskRepo struct {
	tasks []models.Task
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error { return nil }
func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, id string) (*models.Task, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeTaskRepo) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	return f.tasks, nil
}
func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error { return nil }
func (f *fakeTaskRepo) Delete(ctx context.Context, userID, id string) error { return nil }

type fakeEventRepo struct {
	stored []models.CalendarEvent

	replacedStart string
	replacedEnd   string
	replaced      []models.CalendarEvent
}

func (f *fakeEventRepo) UpsertMany(ctx context.Context, userID string, events []models.CalendarEvent) error {
	return nil
}
func (f *fakeEventRepo) ListByUserInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error) {
	return f.stored, nil
}
func (f *fakeEventRepo) ListFixedInWindow(ctx context.Context, userID, startDate, endDate string) ([]models.CalendarEvent, error) {
	return f.stored, nil
}
func (f *fakeEventRepo) ListStartingBetween(ctx context.Context, startISO, endISO string) ([]models.CalendarEvent, error) {
	return nil, nil
}
func (f *fakeEventRepo) ReplaceWindow(ctx context.Context, userID, startDate, endDate string, events []models.CalendarEvent) error {
	f.replacedStart = startDate
	f.replacedEnd = endDate
	f.replaced = events
	return nil
}
func (f *fakeEventRepo) Delete(ctx context.Context, userID, eventID string) error { return nil }

type fakeSettingsRepo struct {
	settings models.PlannerSettings
}

func (f *fakeSettingsRepo) Get(ctx context.Context, userID string) (*models.PlannerSettings, error) {
	s := f.settings
	s.UserID = userID
	return &s, nil
}
func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings *models.PlannerSettings) error {
	return nil
}

type fakeEngine struct {
	plan *models.EnginePlan
	err  error

	called   bool
	gotSlots []planner.FreeSlot
	gotTasks []models.Task
}

func (f *fakeEngine) ProposePlan(ctx context.Context, slots []planner.FreeSlot, tasks []models.Task, windowStart string, days int) (*models.EnginePlan, error) {
	f.called = true
	f.gotSlots = slots
	f.gotTasks = tasks
	return f.plan, f.err
}

func newTestService(tasks []models.Task, stored []models.CalendarEvent, engine *fakeEngine) (*DefaultScheduleService, *fakeEventRepo) {
	events := &fakeEventRepo{stored: stored}
	svc := &DefaultScheduleService{
		Tasks:    &fakeTaskRepo{tasks: tasks},
		Events:   events,
		Settings: &fakeSettingsRepo{settings: models.PlannerSettings{DayStartHour: 9, DayEndHour: 18, WorkWeekOnly: true, DaysToPlan: 7}},
		Engine:   engine,
		Logger:   zap.NewNop(),
		// Well before the window, so the first day is never clamped.
		Now: func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local) },
	}
	return svc, events
}

func TestGeneratePlanMergesFixedAndEngineEvents(t *testing.T) {
	tasks := []models.Task{
		{
			ID: "standup", Title: "Standup", IsFixed: true,
			Recurrence: models.RecurrenceDaily, StartTime: "12:00", FinishTime: "13:00",
		},
		{ID: "report", Title: "Write report", Relevance: 5, Urgency: 4, Deadline: "2025-03-04", EstimatedHours: 2},
		{ID: "inbox", Title: "Inbox zero", Relevance: 1, Urgency: 1, EstimatedHours: 1},
	}
	engine := &fakeEngine{plan: &models.EnginePlan{
		Schedule: []models.EngineSegment{
			{TaskID: "report", Start: "2025-03-03T09:00:00", End: "2025-03-03T11:00:00"},
		},
	}}
	svc, events := newTestService(tasks, nil, engine)

	result, err := svc.GeneratePlan(context.Background(), "u1", "2025-03-03", 1)
	require.NoError(t, err)
	require.True(t, engine.called)

	// Only flexible tasks reach the engine.
	require.Len(t, engine.gotTasks, 2)
	// The lunchtime block splits the work day in two.
	require.Len(t, engine.gotSlots, 2)

	require.Len(t, result.Schedule, 2)
	fixed := result.Schedule[0]
	assert.Equal(t, "fixed-standup-2025-03-03", fixed.ID)
	assert.True(t, fixed.IsFixed)
	assert.Equal(t, "Fixed Commitment", fixed.Reasoning)
	assert.Equal(t, "2025-03-03T12:00:00", fixed.Start)

	generated := result.Schedule[1]
	assert.Equal(t, "report", generated.TaskID)
	assert.NotEmpty(t, generated.ID)
	assert.Equal(t, "Write report", generated.Title, "title filled in from the task")
	assert.Equal(t, "Q1", generated.Quadrant, "quadrant filled in from the task")
	assert.Equal(t, "AI Scheduled", generated.Reasoning)

	assert.Equal(t, []string{"inbox"}, result.UnscheduledTaskIDs)

	assert.Equal(t, "2025-03-03", events.replacedStart)
	assert.Equal(t, "2025-03-04", events.replacedEnd)
	assert.Equal(t, result.Schedule, events.replaced)
}

func TestGeneratePlanSkipsEngineWithoutFlexibleTasks(t *testing.T) {
	tasks := []models.Task{
		{
			ID: "gym", Title: "Gym", IsFixed: true,
			Recurrence: models.RecurrenceDaily, StartTime: "17:00", FinishTime: "18:00",
		},
		{ID: "done", Title: "Old chore", Status: models.StatusCompleted},
	}
	engine := &fakeEngine{}
	svc, events := newTestService(tasks, nil, engine)

	result, err := svc.GeneratePlan(context.Background(), "u1", "2025-03-03", 1)
	require.NoError(t, err)
	assert.False(t, engine.called)
	require.Len(t, result.Schedule, 1)
	assert.Equal(t, "fixed-gym-2025-03-03", result.Schedule[0].ID)
	assert.Empty(t, result.UnscheduledTaskIDs)
	assert.Len(t, events.replaced, 1)
}

func TestGeneratePlanWorkWeekOnlySkipsWeekendInstances(t *testing.T) {
	tasks := []models.Task{
		{
			ID: "standup", Title: "Standup", IsFixed: true,
			Recurrence: models.RecurrenceDaily, StartTime: "12:00", FinishTime: "13:00",
		},
	}
	svc, _ := newTestService(tasks, nil, &fakeEngine{})

	// Monday through Sunday; Saturday and Sunday must stay empty.
	result, err := svc.GeneratePlan(context.Background(), "u1", "2025-03-03", 7)
	require.NoError(t, err)
	require.Len(t, result.Schedule, 5)
	for _, ev := range result.Schedule {
		assert.NotContains(t, []string{"2025-03-08", "2025-03-09"}, ev.Start[:10])
	}
}

func TestGeneratePlanOverflow(t *testing.T) {
	tasks := []models.Task{
		{ID: "thesis", Title: "Finish thesis", Relevance: 5, Urgency: 5, EstimatedHours: 60},
	}
	engine := &fakeEngine{plan: &models.EnginePlan{
		Error:          "overflow",
		CulpritTaskIDs: []string{"thesis"},
		FailureReason:  "not enough free hours before the deadline",
	}}
	svc, _ := newTestService(tasks, nil, engine)

	_, err := svc.GeneratePlan(context.Background(), "u1", "2025-03-03", 1)
	var overflow *OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, []string{"Finish thesis"}, overflow.CulpritTitles)
	assert.Contains(t, err.Error(), `"Finish thesis"`)
	assert.Contains(t, err.Error(), "not enough free hours")
}

func TestGeneratePlanNoCapacity(t *testing.T) {
	stored := []models.CalendarEvent{
		{ID: "google-abc", Title: "Offsite", Start: "2025-03-03T09:00:00", End: "2025-03-03T18:00:00", IsFixed: true},
	}
	engine := &fakeEngine{}
	svc, _ := newTestService([]models.Task{{ID: "t", Title: "T", EstimatedHours: 1}}, stored, engine)

	_, err := svc.GeneratePlan(context.Background(), "u1", "2025-03-03", 1)
	require.ErrorIs(t, err, ErrNoCapacity)
	assert.False(t, engine.called)
}

func TestGeneratePlanRegeneratesStaleExpansions(t *testing.T) {
	// A stored instance from a previous cycle must not count as a commitment
	// twice, and must be replaced by the fresh expansion.
	stored := []models.CalendarEvent{
		{ID: "fixed-standup-2025-03-03", Title: "Standup", Start: "2025-03-03T12:00:00", End: "2025-03-03T13:00:00", IsFixed: true},
	}
	tasks := []models.Task{
		{
			ID: "standup", Title: "Standup", IsFixed: true,
			Recurrence: models.RecurrenceDaily, StartTime: "12:00", FinishTime: "13:00",
		},
	}
	svc, events := newTestService(tasks, stored, &fakeEngine{})

	result, err := svc.GeneratePlan(context.Background(), "u1", "2025-03-03", 1)
	require.NoError(t, err)
	require.Len(t, result.Schedule, 1)
	assert.Equal(t, "fixed-standup-2025-03-03", result.Schedule[0].ID)
	assert.Len(t, events.replaced, 1)
}

func TestGeneratePlanInvalidWindow(t *testing.T) {
	svc, _ := newTestService(nil, nil, &fakeEngine{})

	_, err := svc.GeneratePlan(context.Background(), "u1", "03/03/2025", 7)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.GeneratePlan(context.Background(), "u1", "2025-03-03", 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestPreviewSlotsReflectsStoredCommitments(t *testing.T) {
	stored := []models.CalendarEvent{
		{ID: "google-mtg", Title: "1:1", Start: "2025-03-03T09:00:00", End: "2025-03-03T10:00:00", IsFixed: true},
	}
	svc, _ := newTestService(nil, stored, &fakeEngine{})

	slots, err := svc.PreviewSlots(context.Background(), "u1", "2025-03-03", 1)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.Local), slots[0].Start)
	assert.Equal(t, 480, slots[0].DurationMinutes)
}
