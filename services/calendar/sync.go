// File: services/calendar/sync.go
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"eisenflow/models"
)

// googleIDPrefix namespaces synced events so regeneration and cleanup can
// tell them apart from planner output and recurring-task instances.
const googleIDPrefix = "google-"

const syncMaxResults = 250

// Sync imports the window's events from the user's primary calendar.
func (s *GoogleCalendarService) Sync(ctx context.Context, userID, accessToken, startDate string, days int) (int, error) {
	if accessToken == "" {
		return 0, fmt.Errorf("missing calendar access token")
	}
	windowStart, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil || days < 1 {
		return 0, fmt.Errorf("invalid sync window %q/%d", startDate, days)
	}
	windowEnd := windowStart.AddDate(0, 0, days)

	client, err := s.newClient(ctx, accessToken)
	if err != nil {
		return 0, fmt.Errorf("calendar client: %w", err)
	}

	items, err := client.ListEvents(ctx, windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("list calendar events: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(items))
	for _, item := range items {
		if item.Cancelled || item.Start == "" {
			continue
		}
		ev := models.CalendarEvent{
			ID:      googleIDPrefix + item.ID,
			UserID:  userID,
			Title:   item.Title,
			Start:   item.Start,
			End:     item.End,
			Type:    models.EventTypeMeeting,
			IsFixed: true,
		}
		if ev.Title == "" {
			ev.Title = "(no title)"
		}
		if item.AllDay {
			// All-day entries carry bare dates; pin them to midnight so the
			// lexicographic window filters still apply.
			ev.Start = item.Start + "T00:00:00"
			ev.End = item.End + "T00:00:00"
		}
		events = append(events, ev)
	}

	if len(events) > 0 {
		if err := s.Events.UpsertMany(ctx, userID, events); err != nil {
			return 0, fmt.Errorf("store synced events: %w", err)
		}
	}

	s.Logger.Info("calendar sync complete",
		zap.String("userId", userID),
		zap.String("windowStart", startDate),
		zap.Int("days", days),
		zap.Int("imported", len(events)),
	)
	return len(events), nil
}

type googleClient struct {
	svc *gcal.Service
}

func newGoogleClient(ctx context.Context, accessToken string) (calendarAPI, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, err
	}
	return &googleClient{svc: svc}, nil
}

func (c *googleClient) ListEvents(ctx context.Context, timeMin, timeMax string) ([]externalEvent, error) {
	var out []externalEvent
	call := c.svc.Events.List("primary").
		Context(ctx).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(syncMaxResults)

	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			out = append(out, toExternalEvent(item))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toExternalEvent(item *gcal.Event) externalEvent {
	ev := externalEvent{
		ID:        item.Id,
		Title:     item.Summary,
		Cancelled: strings.EqualFold(item.Status, "cancelled"),
	}
	if item.Start != nil {
		if item.Start.DateTime != "" {
			ev.Start = item.Start.DateTime
		} else {
			ev.Start = item.Start.Date
			ev.AllDay = true
		}
	}
	if item.End != nil {
		if item.End.DateTime != "" {
			ev.End = item.End.DateTime
		} else {
			ev.End = item.End.Date
		}
	}
	return ev
}
