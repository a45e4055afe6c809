// File: services/schedule/scheduler.go
package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eisenflow/models"
	"eisenflow/services/planner"
)

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02T15:04:05"
)

// expandedIDPrefix marks events produced by recurring-task expansion. Their
// ids are deterministic in (task, date), so every cycle drops the stored
// batch and regenerates it instead of diffing.
const expandedIDPrefix = "fixed-"

// GeneratePlan runs one full planning cycle for the window
// [startDate, startDate+days). Everything is computed from a single snapshot
// of tasks, stored events and settings so slots are never derived from stale
// commitments.
func (s *DefaultScheduleService) GeneratePlan(ctx context.Context, userID, startDate string, days int) (*models.PlanResult, error) {
	snap, err := s.snapshot(ctx, userID, startDate, days)
	if err != nil {
		return nil, err
	}

	slots, err := planner.ComputeFreeSlots(snap.commitments, snap.windowStart, snap.days, snap.window, s.now())
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrNoCapacity
	}

	fixedEvents := append(snap.keptFixed, snap.expandedEvents...)

	result := &models.PlanResult{}
	if len(snap.flexible) == 0 {
		s.Logger.Info("no flexible tasks to place, keeping fixed schedule only",
			zap.String("userId", userID))
		result.Schedule = fixedEvents
	} else {
		plan, err := s.Engine.ProposePlan(ctx, slots, snap.flexible, startDate, snap.days)
		if err != nil {
			return nil, fmt.Errorf("scheduling engine: %w", err)
		}
		if plan.Error == "overflow" {
			return nil, s.overflowError(plan, snap.flexible)
		}

		generated := hydrateSegments(plan.Schedule, snap.flexible)
		result.Schedule = append(fixedEvents, generated...)
		result.UnscheduledTaskIDs = unscheduledIDs(generated, snap.flexible)
	}

	endDate := snap.windowStart.AddDate(0, 0, snap.days).Format(isoDate)
	if err := s.Events.ReplaceWindow(ctx, userID, startDate, endDate, result.Schedule); err != nil {
		return nil, fmt.Errorf("store plan: %w", err)
	}

	s.Logger.Info("plan generated",
		zap.String("userId", userID),
		zap.String("windowStart", startDate),
		zap.Int("days", snap.days),
		zap.Int("freeSlots", len(slots)),
		zap.Int("events", len(result.Schedule)),
		zap.Int("unscheduled", len(result.UnscheduledTaskIDs)),
	)
	return result, nil
}

// PreviewSlots computes the free slots for the window without planning.
func (s *DefaultScheduleService) PreviewSlots(ctx context.Context, userID, startDate string, days int) ([]planner.FreeSlot, error) {
	snap, err := s.snapshot(ctx, userID, startDate, days)
	if err != nil {
		return nil, err
	}
	return planner.ComputeFreeSlots(snap.commitments, snap.windowStart, snap.days, snap.window, s.now())
}

// planSnapshot is the consistent input set for one planning cycle.
type planSnapshot struct {
	windowStart time.Time
	days        int
	window      planner.WorkWindowConfig

	flexible       []models.Task          // non-fixed, not completed
	keptFixed      []models.CalendarEvent // manual + synced fixed events
	expandedEvents []models.CalendarEvent // fresh recurring-task instances
	commitments    []planner.TimeInterval
}

func (s *DefaultScheduleService) snapshot(ctx context.Context, userID, startDate string, days int) (*planSnapshot, error) {
	windowStart, err := time.ParseInLocation(isoDate, startDate, time.Local)
	if err != nil || days < 1 {
		return nil, ErrInvalidWindow
	}
	endDate := windowStart.AddDate(0, 0, days).Format(isoDate)

	settings, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	tasks, err := s.Tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	stored, err := s.Events.ListFixedInWindow(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	snap := &planSnapshot{
		windowStart: windowStart,
		days:        days,
		window: planner.WorkWindowConfig{
			DayStartHour: settings.DayStartHour,
			DayEndHour:   settings.DayEndHour,
			WorkWeekOnly: settings.WorkWeekOnly,
		},
	}

	var specs []planner.RecurringTaskSpec
	for _, t := range tasks {
		if t.IsFixed {
			specs = append(specs, planner.RecurringTaskSpec{
				ID:             t.ID,
				Title:          t.Title,
				DailyStart:     t.StartTime,
				DailyFinish:    t.FinishTime,
				Rule:           t.Recurrence,
				ReferenceDate:  t.Deadline,
				EstimatedHours: t.EstimatedHours,
			})
			continue
		}
		if t.Status != models.StatusCompleted {
			snap.flexible = append(snap.flexible, t)
		}
	}

	instances, err := planner.ExpandRecurringTasks(specs, windowStart, days)
	if err != nil {
		return nil, fmt.Errorf("expand recurring tasks: %w", err)
	}
	for _, inst := range instances {
		// Work-week mode keeps weekends clear of recurring instances too.
		if snap.window.WorkWeekOnly && isWeekend(inst.Start) {
			continue
		}
		snap.expandedEvents = append(snap.expandedEvents, models.CalendarEvent{
			ID:        inst.ID,
			UserID:    userID,
			Title:     inst.Title,
			Start:     inst.Start.Format(isoDateTime),
			End:       inst.End.Format(isoDateTime),
			Type:      models.EventTypeTaskBlock,
			TaskID:    inst.SourceTaskID,
			IsFixed:   true,
			Reasoning: "Fixed Commitment",
			Quadrant:  "Q4",
		})
		snap.commitments = append(snap.commitments, planner.TimeInterval{
			Start: inst.Start,
			End:   inst.End,
			Title: inst.Title,
		})
	}

	for _, ev := range stored {
		// Stale expansion instances get regenerated above.
		if strings.HasPrefix(ev.ID, expandedIDPrefix) {
			continue
		}
		start, err1 := parseEventTime(ev.Start)
		end, err2 := parseEventTime(ev.End)
		if err1 != nil || err2 != nil {
			s.Logger.Warn("skipping event with unparseable times",
				zap.String("eventId", ev.ID), zap.String("start", ev.Start), zap.String("end", ev.End))
			continue
		}
		snap.keptFixed = append(snap.keptFixed, ev)
		snap.commitments = append(snap.commitments, planner.TimeInterval{
			Start: start,
			End:   end,
			Title: ev.Title,
		})
	}

	return snap, nil
}

// hydrateSegments turns engine output into calendar events, filling in the
// fields the engine does not own (quadrant, titles) from the task snapshot.
func hydrateSegments(segments []models.EngineSegment, tasks []models.Task) []models.CalendarEvent {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	events := make([]models.CalendarEvent, 0, len(segments))
	for _, seg := range segments {
		ev := models.CalendarEvent{
			ID:        seg.ID,
			Title:     seg.Title,
			Start:     seg.Start,
			End:       seg.End,
			Type:      models.EventTypeTaskBlock,
			TaskID:    seg.TaskID,
			Reasoning: seg.Reasoning,
			Quadrant:  seg.Quadrant,
		}
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if ev.Reasoning == "" {
			ev.Reasoning = "AI Scheduled"
		}
		if task, ok := byID[seg.TaskID]; ok {
			if ev.Title == "" {
				ev.Title = task.Title
			}
			if ev.Quadrant == "" {
				ev.Quadrant = task.Quadrant()
			}
		}
		events = append(events, ev)
	}
	return events
}

// unscheduledIDs reports tasks the engine produced no segment for, so the
// caller can surface them instead of silently dropping work.
func unscheduledIDs(events []models.CalendarEvent, tasks []models.Task) []string {
	placed := make(map[string]bool, len(events))
	for _, ev := range events {
		placed[ev.TaskID] = true
	}
	var missing []string
	for _, t := range tasks {
		if !placed[t.ID] {
			missing = append(missing, t.ID)
		}
	}
	return missing
}

func (s *DefaultScheduleService) overflowError(plan *models.EnginePlan, tasks []models.Task) error {
	byID := make(map[string]string, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t.Title
	}
	var titles []string
	for _, id := range plan.CulpritTaskIDs {
		if title, ok := byID[id]; ok {
			titles = append(titles, title)
		}
	}
	return &OverflowError{CulpritTitles: titles, Reason: plan.FailureReason}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// parseEventTime accepts the ISO shapes events arrive in: zoned timestamps
// from calendar sync, naive local timestamps from the planner, and bare
// dates from all-day events.
func parseEventTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, isoDateTime, "2006-01-02T15:04", isoDate} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", s)
}
