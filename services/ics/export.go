// File: services/ics/export.go
package ics

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	eventRepo "eisenflow/database/repository/event"
)

// ExportService renders a user's schedule window as an iCalendar feed, so
// any external calendar app can subscribe to the generated plan.
type ExportService interface {
	Export(ctx context.Context, userID, startDate string, days int) (string, error)
}

// DefaultExportService implements ExportService on top of the event store.
type DefaultExportService struct {
	Events eventRepo.EventRepository
	Logger *zap.Logger
}

const prodID = "-//eisenflow//planner//EN"

// Export serializes the events in [startDate, startDate+days) as an ICS
// document. Events with unparseable timestamps are skipped, not fatal.
func (s *DefaultExportService) Export(ctx context.Context, userID, startDate string, days int) (string, error) {
	windowStart, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil || days < 1 {
		return "", fmt.Errorf("invalid export window %q/%d", startDate, days)
	}
	endDate := windowStart.AddDate(0, 0, days).Format("2006-01-02")

	events, err := s.Events.ListByUserInWindow(ctx, userID, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("load events: %w", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now()
	skipped := 0
	for _, ev := range events {
		start, err1 := parseEventTime(ev.Start)
		end, err2 := parseEventTime(ev.End)
		if err1 != nil || err2 != nil {
			skipped++
			continue
		}
		entry := cal.AddEvent(ev.ID + "@eisenflow")
		entry.SetDtStampTime(now)
		entry.SetStartAt(start)
		entry.SetEndAt(end)
		entry.SetSummary(ev.Title)
		if ev.Reasoning != "" {
			entry.SetDescription(ev.Reasoning)
		}
	}
	if skipped > 0 {
		s.Logger.Warn("export skipped events with bad timestamps",
			zap.String("userId", userID), zap.Int("skipped", skipped))
	}
	return cal.Serialize(), nil
}

func parseEventTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", s)
}
