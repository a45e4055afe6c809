package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eisenflow/models"
)

func TestExpandRecurringTasks_Daily(t *testing.T) {
	task := RecurringTaskSpec{
		ID:          "gym",
		Title:       "Morning Gym",
		DailyStart:  "07:00",
		DailyFinish: "08:00",
		Rule:        models.RecurrenceDaily,
	}

	instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 3), 7)
	require.NoError(t, err)
	require.Len(t, instances, 7)

	for i, inst := range instances {
		day := date(2025, time.March, 3).AddDate(0, 0, i)
		assert.Equal(t, "fixed-gym-"+day.Format("2006-01-02"), inst.ID)
		assert.Equal(t, "Morning Gym", inst.Title)
		assert.Equal(t, time.Date(day.Year(), day.Month(), day.Day(), 7, 0, 0, 0, time.UTC), inst.Start)
		assert.Equal(t, time.Hour, inst.End.Sub(inst.Start))
		assert.Equal(t, "gym", inst.SourceTaskID)
	}
}

func TestExpandRecurringTasks_WeekdaysFromSaturday(t *testing.T) {
	task := RecurringTaskSpec{
		ID:          "standup",
		Title:       "Daily Standup",
		DailyStart:  "09:00",
		DailyFinish: "09:30",
		Rule:        models.RecurrenceWeekdays,
	}

	// Window starts Saturday 2025-03-01; only Monday-Friday qualify.
	instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 1), 7)
	require.NoError(t, err)
	require.Len(t, instances, 5)

	wantDates := []string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07"}
	for i, inst := range instances {
		assert.Equal(t, wantDates[i], inst.Start.Format("2006-01-02"))
		wd := inst.Start.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestExpandRecurringTasks_WeeklyMatchesReferenceWeekday(t *testing.T) {
	// Reference 2025-03-05 is a Wednesday.
	task := RecurringTaskSpec{
		ID:            "review",
		Title:         "Weekly Review",
		DailyStart:    "16:00",
		DailyFinish:   "17:00",
		Rule:          models.RecurrenceWeekly,
		ReferenceDate: "2025-03-05",
	}

	instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 3), 14)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "2025-03-05", instances[0].Start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-12", instances[1].Start.Format("2006-01-02"))
	for _, inst := range instances {
		assert.Equal(t, time.Wednesday, inst.Start.Weekday())
	}
}

func TestExpandRecurringTasks_None(t *testing.T) {
	task := RecurringTaskSpec{
		ID:            "dentist",
		Title:         "Dentist",
		DailyStart:    "11:00",
		DailyFinish:   "12:00",
		Rule:          models.RecurrenceNone,
		ReferenceDate: "2025-03-05",
	}

	tests := []struct {
		name        string
		windowStart time.Time
		days        int
		wantCount   int
	}{
		{"reference inside window", date(2025, time.March, 3), 7, 1},
		{"reference inside long window still single", date(2025, time.March, 3), 30, 1},
		{"reference before window", date(2025, time.March, 10), 7, 0},
		{"reference after window", date(2025, time.February, 1), 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, tt.windowStart, tt.days)
			require.NoError(t, err)
			require.Len(t, instances, tt.wantCount)
			if tt.wantCount == 1 {
				assert.Equal(t, "2025-03-05", instances[0].Start.Format("2006-01-02"))
			}
		})
	}
}

func TestExpandRecurringTasks_ReferenceDateWithTimePart(t *testing.T) {
	task := RecurringTaskSpec{
		ID:            "once",
		Title:         "One Off",
		DailyStart:    "10:00",
		DailyFinish:   "11:00",
		Rule:          models.RecurrenceNone,
		ReferenceDate: "2025-03-05T00:00:00",
	}

	instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 3), 7)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "2025-03-05", instances[0].Start.Format("2006-01-02"))
}

func TestExpandRecurringTasks_OvernightWrap(t *testing.T) {
	task := RecurringTaskSpec{
		ID:          "shift",
		Title:       "Night Shift",
		DailyStart:  "22:00",
		DailyFinish: "06:00",
		Rule:        models.RecurrenceDaily,
	}

	instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 3), 1)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	inst := instances[0]
	assert.True(t, inst.End.After(inst.Start))
	assert.Equal(t, 8*time.Hour, inst.End.Sub(inst.Start))
	assert.Equal(t, "2025-03-04", inst.End.Format("2006-01-02"))
}

func TestExpandRecurringTasks_FinishEqualsStart(t *testing.T) {
	task := RecurringTaskSpec{
		ID:          "allday",
		Title:       "On Call",
		DailyStart:  "08:00",
		DailyFinish: "08:00",
		Rule:        models.RecurrenceDaily,
	}

	instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 3), 1)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, 24*time.Hour, instances[0].End.Sub(instances[0].Start))
}

func TestExpandRecurringTasks_EstimatedHoursFallback(t *testing.T) {
	tests := []struct {
		name         string
		hours        float64
		wantDuration time.Duration
	}{
		{"positive estimate", 2.5, 150 * time.Minute},
		{"zero estimate clamps to one hour", 0, time.Hour},
		{"negative estimate clamps to one hour", -3, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := RecurringTaskSpec{
				ID:             "flex",
				Title:          "Focus Block",
				DailyStart:     "13:00",
				Rule:           models.RecurrenceDaily,
				EstimatedHours: tt.hours,
			}
			instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 3), 1)
			require.NoError(t, err)
			require.Len(t, instances, 1)
			assert.Equal(t, tt.wantDuration, instances[0].End.Sub(instances[0].Start))
		})
	}
}

func TestExpandRecurringTasks_DefaultStartTime(t *testing.T) {
	task := RecurringTaskSpec{
		ID:          "noclock",
		Title:       "Unclocked",
		DailyFinish: "10:00",
		Rule:        models.RecurrenceDaily,
	}

	instances, err := ExpandRecurringTasks([]RecurringTaskSpec{task}, date(2025, time.March, 3), 1)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, 9, instances[0].Start.Hour())
	assert.Equal(t, 0, instances[0].Start.Minute())
}

func TestExpandRecurringTasks_Deterministic(t *testing.T) {
	tasks := []RecurringTaskSpec{
		{ID: "a", Title: "A", DailyStart: "09:00", DailyFinish: "10:00", Rule: models.RecurrenceDaily},
		{ID: "b", Title: "B", DailyStart: "11:00", DailyFinish: "12:00", Rule: models.RecurrenceWeekdays},
	}

	first, err := ExpandRecurringTasks(tasks, date(2025, time.March, 1), 14)
	require.NoError(t, err)
	second, err := ExpandRecurringTasks(tasks, date(2025, time.March, 1), 14)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// One instance per task per calendar day at most.
	seen := map[string]bool{}
	for _, inst := range first {
		key := inst.SourceTaskID + "/" + inst.Start.Format("2006-01-02")
		assert.False(t, seen[key], "duplicate instance %s", key)
		seen[key] = true
	}
}

func TestExpandRecurringTasks_InvalidInput(t *testing.T) {
	_, err := ExpandRecurringTasks(nil, date(2025, time.March, 3), 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = ExpandRecurringTasks([]RecurringTaskSpec{
		{ID: "bad", DailyStart: "25:00", Rule: models.RecurrenceDaily},
	}, date(2025, time.March, 3), 1)
	assert.Error(t, err)

	_, err = ExpandRecurringTasks([]RecurringTaskSpec{
		{ID: "badref", DailyStart: "09:00", Rule: models.RecurrenceWeekly, ReferenceDate: "soon"},
	}, date(2025, time.March, 3), 1)
	assert.Error(t, err)
}

func TestExpandRecurringTasks_EmptyReferenceAnchorsOnWindowStart(t *testing.T) {
	out, err := ExpandRecurringTasks([]RecurringTaskSpec{
		{ID: "t1", Title: "One-off", DailyStart: "10:00", DailyFinish: "11:00", Rule: models.RecurrenceNone},
	}, date(2025, time.March, 3), 7)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, at(2025, time.March, 3, 10, 0), out[0].Start)

	weekly, err := ExpandRecurringTasks([]RecurringTaskSpec{
		{ID: "t2", Title: "Recurring", DailyStart: "10:00", DailyFinish: "11:00", Rule: models.RecurrenceWeekly},
	}, date(2025, time.March, 3), 14)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, time.Monday, weekly[0].Start.Weekday())
}
