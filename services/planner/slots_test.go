package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestComputeFreeSlots_SweepAroundCommitments(t *testing.T) {
	// Monday 2025-03-03, meetings 09:00-09:30 and 14:00-15:00, window 9-18.
	day := date(2025, time.March, 3)
	commitments := []TimeInterval{
		{Start: at(2025, time.March, 3, 9, 0), End: at(2025, time.March, 3, 9, 30), Title: "Daily Standup"},
		{Start: at(2025, time.March, 3, 14, 0), End: at(2025, time.March, 3, 15, 0), Title: "Client Sync"},
	}
	cfg := WorkWindowConfig{DayStartHour: 9, DayEndHour: 18}
	now := at(2025, time.March, 3, 8, 0)

	slots, err := ComputeFreeSlots(commitments, day, 1, cfg, now)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, at(2025, time.March, 3, 9, 30), slots[0].Start)
	assert.Equal(t, at(2025, time.March, 3, 14, 0), slots[0].End)
	assert.Equal(t, 270, slots[0].DurationMinutes)

	assert.Equal(t, at(2025, time.March, 3, 15, 0), slots[1].Start)
	assert.Equal(t, at(2025, time.March, 3, 18, 0), slots[1].End)
	assert.Equal(t, 180, slots[1].DurationMinutes)
}

func TestComputeFreeSlots_TodayClamp(t *testing.T) {
	day := date(2025, time.March, 3)
	cfg := WorkWindowConfig{DayStartHour: 9, DayEndHour: 18}

	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEmpty bool
	}{
		{
			name:      "now before work start keeps full window",
			now:       at(2025, time.March, 3, 7, 45),
			wantStart: at(2025, time.March, 3, 9, 0),
		},
		{
			name:      "now mid-morning rounds up to next quarter hour",
			now:       at(2025, time.March, 3, 9, 10),
			wantStart: at(2025, time.March, 3, 9, 15),
		},
		{
			name:      "now exactly on boundary is kept",
			now:       at(2025, time.March, 3, 10, 30),
			wantStart: at(2025, time.March, 3, 10, 30),
		},
		{
			name:      "now after work end skips the day",
			now:       at(2025, time.March, 3, 19, 0),
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := ComputeFreeSlots(nil, day, 1, cfg, tt.now)
			require.NoError(t, err)
			if tt.wantEmpty {
				assert.Empty(t, slots)
				return
			}
			require.Len(t, slots, 1)
			assert.Equal(t, tt.wantStart, slots[0].Start)
			assert.False(t, slots[0].Start.Before(tt.now), "slot must not start in the past")
		})
	}
}

func TestComputeFreeSlots_WorkWeekOnly(t *testing.T) {
	// Saturday 2025-03-01 through Friday 2025-03-07.
	start := date(2025, time.March, 1)
	cfg := WorkWindowConfig{DayStartHour: 9, DayEndHour: 18, WorkWeekOnly: true}
	now := at(2025, time.February, 28, 8, 0)

	slots, err := ComputeFreeSlots(nil, start, 7, cfg, now)
	require.NoError(t, err)
	require.Len(t, slots, 5)
	for _, s := range slots {
		wd := s.Start.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestComputeFreeSlots_Boundaries(t *testing.T) {
	day := date(2025, time.March, 3)
	cfg := WorkWindowConfig{DayStartHour: 9, DayEndHour: 18}
	now := at(2025, time.March, 2, 8, 0)

	tests := []struct {
		name        string
		commitments []TimeInterval
		want        []FreeSlot
	}{
		{
			name: "commitment touching window start does not overlap",
			commitments: []TimeInterval{
				{Start: at(2025, time.March, 3, 8, 0), End: at(2025, time.March, 3, 9, 0)},
			},
			want: []FreeSlot{
				{Start: at(2025, time.March, 3, 9, 0), End: at(2025, time.March, 3, 18, 0), DurationMinutes: 540},
			},
		},
		{
			name: "back to back commitments leave no phantom gap",
			commitments: []TimeInterval{
				{Start: at(2025, time.March, 3, 9, 0), End: at(2025, time.March, 3, 12, 0)},
				{Start: at(2025, time.March, 3, 12, 0), End: at(2025, time.March, 3, 14, 0)},
			},
			want: []FreeSlot{
				{Start: at(2025, time.March, 3, 14, 0), End: at(2025, time.March, 3, 18, 0), DurationMinutes: 240},
			},
		},
		{
			name: "gap shorter than fifteen minutes is swallowed",
			commitments: []TimeInterval{
				{Start: at(2025, time.March, 3, 9, 0), End: at(2025, time.March, 3, 12, 0)},
				{Start: at(2025, time.March, 3, 12, 10), End: at(2025, time.March, 3, 18, 0)},
			},
			want: nil,
		},
		{
			name: "commitment spanning the whole day leaves nothing",
			commitments: []TimeInterval{
				{Start: at(2025, time.March, 3, 7, 0), End: at(2025, time.March, 3, 20, 0)},
			},
			want: nil,
		},
		{
			name: "overlapping commitments are merged by the sweep",
			commitments: []TimeInterval{
				{Start: at(2025, time.March, 3, 10, 0), End: at(2025, time.March, 3, 12, 0)},
				{Start: at(2025, time.March, 3, 11, 0), End: at(2025, time.March, 3, 13, 0)},
			},
			want: []FreeSlot{
				{Start: at(2025, time.March, 3, 9, 0), End: at(2025, time.March, 3, 10, 0), DurationMinutes: 60},
				{Start: at(2025, time.March, 3, 13, 0), End: at(2025, time.March, 3, 18, 0), DurationMinutes: 300},
			},
		},
		{
			name: "unsorted input is handled",
			commitments: []TimeInterval{
				{Start: at(2025, time.March, 3, 14, 0), End: at(2025, time.March, 3, 15, 0)},
				{Start: at(2025, time.March, 3, 9, 0), End: at(2025, time.March, 3, 9, 30)},
			},
			want: []FreeSlot{
				{Start: at(2025, time.March, 3, 9, 30), End: at(2025, time.March, 3, 14, 0), DurationMinutes: 270},
				{Start: at(2025, time.March, 3, 15, 0), End: at(2025, time.March, 3, 18, 0), DurationMinutes: 180},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := ComputeFreeSlots(tt.commitments, day, 1, cfg, now)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, slots)
				return
			}
			assert.Equal(t, tt.want, slots)
		})
	}
}

// The slots plus the clipped commitments plus sub-minimum gaps must tile
// [workStart, workEnd] exactly: slots never overlap a commitment and never
// each other.
func TestComputeFreeSlots_PartitionProperty(t *testing.T) {
	day := date(2025, time.March, 3)
	cfg := WorkWindowConfig{DayStartHour: 8, DayEndHour: 20}
	now := at(2025, time.March, 2, 8, 0)
	commitments := []TimeInterval{
		{Start: at(2025, time.March, 3, 7, 30), End: at(2025, time.March, 3, 8, 45)},
		{Start: at(2025, time.March, 3, 10, 0), End: at(2025, time.March, 3, 11, 30)},
		{Start: at(2025, time.March, 3, 11, 30), End: at(2025, time.March, 3, 12, 0)},
		{Start: at(2025, time.March, 3, 15, 55), End: at(2025, time.March, 3, 16, 5)},
		{Start: at(2025, time.March, 3, 19, 0), End: at(2025, time.March, 3, 21, 0)},
	}

	slots, err := ComputeFreeSlots(commitments, day, 1, cfg, now)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i, s := range slots {
		assert.True(t, s.End.After(s.Start))
		assert.GreaterOrEqual(t, s.DurationMinutes, MinSlotMinutes)
		if i > 0 {
			assert.False(t, s.Start.Before(slots[i-1].End), "slots must not overlap")
		}
		for _, c := range commitments {
			overlap := c.Start.Before(s.End) && c.End.After(s.Start)
			assert.False(t, overlap, "slot %v overlaps commitment %v", s, c)
		}
	}
}

func TestComputeFreeSlots_Idempotent(t *testing.T) {
	day := date(2025, time.March, 3)
	cfg := WorkWindowConfig{DayStartHour: 9, DayEndHour: 18}
	now := at(2025, time.March, 3, 9, 10)
	commitments := []TimeInterval{
		{Start: at(2025, time.March, 3, 10, 0), End: at(2025, time.March, 3, 11, 0)},
	}

	first, err := ComputeFreeSlots(commitments, day, 3, cfg, now)
	require.NoError(t, err)
	second, err := ComputeFreeSlots(commitments, day, 3, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeFreeSlots_MultiDayOrdering(t *testing.T) {
	start := date(2025, time.March, 3)
	cfg := WorkWindowConfig{DayStartHour: 9, DayEndHour: 18}
	now := at(2025, time.March, 2, 8, 0)

	slots, err := ComputeFreeSlots(nil, start, 3, cfg, now)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.After(slots[i-1].Start))
	}
}

func TestComputeFreeSlots_InvalidInput(t *testing.T) {
	day := date(2025, time.March, 3)
	now := at(2025, time.March, 3, 8, 0)

	_, err := ComputeFreeSlots(nil, day, 0, WorkWindowConfig{DayStartHour: 9, DayEndHour: 18}, now)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = ComputeFreeSlots(nil, day, 1, WorkWindowConfig{DayStartHour: 18, DayEndHour: 9}, now)
	assert.ErrorIs(t, err, ErrInvalidWorkWindow)

	_, err = ComputeFreeSlots(nil, day, 1, WorkWindowConfig{DayStartHour: 9, DayEndHour: 9}, now)
	assert.ErrorIs(t, err, ErrInvalidWorkWindow)
}

func TestCeilToQuarterHour(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{at(2025, time.March, 3, 9, 0), at(2025, time.March, 3, 9, 0)},
		{at(2025, time.March, 3, 9, 1), at(2025, time.March, 3, 9, 15)},
		{at(2025, time.March, 3, 9, 14), at(2025, time.March, 3, 9, 15)},
		{time.Date(2025, time.March, 3, 9, 15, 1, 0, time.UTC), at(2025, time.March, 3, 9, 30)},
		{at(2025, time.March, 3, 23, 50), at(2025, time.March, 4, 0, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ceilToQuarterHour(tt.in))
	}
}
