// Package planner holds the deterministic scheduling core: free-slot carving
// out of a working-hours window, and recurrence expansion of fixed tasks into
// concrete calendar instances. Both entry points are pure functions; callers
// are expected to feed them a single consistent snapshot of commitments and
// settings per planning cycle.
package planner

import (
	"errors"
	"sort"
	"time"
)

// MinSlotMinutes is the smallest free slot worth offering to the scheduling
// engine. Gaps shorter than this are swallowed.
const MinSlotMinutes = 15

var (
	// ErrInvalidWorkWindow signals dayStartHour >= dayEndHour or an hour
	// outside 0..23.
	ErrInvalidWorkWindow = errors.New("planner: invalid work window")
	// ErrInvalidHorizon signals a non-positive day count.
	ErrInvalidHorizon = errors.New("planner: horizon must be at least one day")
)

// TimeInterval is an opaque busy interval. Title is carried for diagnostics
// only and never influences the computation.
type TimeInterval struct {
	Start time.Time
	End   time.Time
	Title string
}

// WorkWindowConfig bounds each planning day.
type WorkWindowConfig struct {
	DayStartHour int
	DayEndHour   int
	WorkWeekOnly bool
}

// FreeSlot is a maximal open interval within working hours. DurationMinutes
// is always >= MinSlotMinutes and End is strictly after Start.
type FreeSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// ComputeFreeSlots carves the free intervals out of the working-hours window
// for each day in [windowStart, windowStart+daysToPlan). Commitments are
// clipped to the day's window; touching intervals (commitment end equal to
// window start, or two back-to-back commitments) do not overlap. On the
// current day the window is clamped so no slot ever starts before now,
// rounded up to the next quarter hour. Output is ordered day-ascending, then
// start-ascending within a day.
func ComputeFreeSlots(commitments []TimeInterval, windowStart time.Time, daysToPlan int, cfg WorkWindowConfig, now time.Time) ([]FreeSlot, error) {
	if daysToPlan < 1 {
		return nil, ErrInvalidHorizon
	}
	if cfg.DayStartHour < 0 || cfg.DayEndHour > 23 || cfg.DayStartHour >= cfg.DayEndHour {
		return nil, ErrInvalidWorkWindow
	}

	slots := make([]FreeSlot, 0)

	for i := 0; i < daysToPlan; i++ {
		date := windowStart.AddDate(0, 0, i)

		if cfg.WorkWeekOnly {
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}

		year, month, day := date.Date()
		loc := date.Location()
		workStart := time.Date(year, month, day, cfg.DayStartHour, 0, 0, 0, loc)
		workEnd := time.Date(year, month, day, cfg.DayEndHour, 0, 0, 0, loc)

		if sameDate(date, now.In(loc)) {
			if now.After(workEnd) {
				continue // day is already over
			}
			if now.After(workStart) {
				if rounded := ceilToQuarterHour(now.In(loc)); rounded.After(workStart) {
					workStart = rounded
				}
			}
		}

		if !workStart.Before(workEnd) {
			continue
		}

		slots = append(slots, sweepDay(commitments, workStart, workEnd)...)
	}

	return slots, nil
}

// sweepDay subtracts the commitments intersecting [workStart, workEnd) from
// the window and returns the remaining gaps of at least MinSlotMinutes.
func sweepDay(commitments []TimeInterval, workStart, workEnd time.Time) []FreeSlot {
	busy := make([]TimeInterval, 0, len(commitments))
	for _, c := range commitments {
		// Strict overlap: touching at either boundary does not count.
		if c.Start.Before(workEnd) && c.End.After(workStart) {
			busy = append(busy, c)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	var out []FreeSlot
	cursor := workStart

	for _, c := range busy {
		clippedStart := c.Start
		if clippedStart.Before(workStart) {
			clippedStart = workStart
		}
		clippedEnd := c.End
		if clippedEnd.After(workEnd) {
			clippedEnd = workEnd
		}

		if gap := clippedStart.Sub(cursor); gap >= MinSlotMinutes*time.Minute {
			out = append(out, makeSlot(cursor, clippedStart))
		}
		if clippedEnd.After(cursor) {
			cursor = clippedEnd
		}
	}

	if workEnd.Sub(cursor) >= MinSlotMinutes*time.Minute {
		out = append(out, makeSlot(cursor, workEnd))
	}

	return out
}

func makeSlot(start, end time.Time) FreeSlot {
	return FreeSlot{
		Start:           start,
		End:             end,
		DurationMinutes: int(end.Sub(start).Round(time.Minute) / time.Minute),
	}
}

// ceilToQuarterHour rounds t up to the next 15-minute wall-clock boundary.
// Times already on a boundary are returned unchanged.
func ceilToQuarterHour(t time.Time) time.Time {
	rem := time.Duration(t.Minute()%15)*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	if rem == 0 {
		return t
	}
	return t.Add(15*time.Minute - rem)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
