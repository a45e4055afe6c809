// File: services/calendar/interface.go
package calendar

import (
	"context"

	"go.uber.org/zap"

	eventRepo "eisenflow/database/repository/event"
)

// CalendarService pulls external calendar events into the local store so the
// planner treats them as fixed commitments.
type CalendarService interface {
	// Sync fetches the user's primary Google Calendar for the window
	// [startDate, startDate+days) and upserts the events. Returns the number
	// of events imported.
	Sync(ctx context.Context, userID, accessToken, startDate string, days int) (int, error)
}

// GoogleCalendarService implements CalendarService against the Google
// Calendar v3 API using the caller's OAuth access token.
type GoogleCalendarService struct {
	Events eventRepo.EventRepository
	Logger *zap.Logger

	// newClient is injectable for tests; defaults to the real API client.
	newClient func(ctx context.Context, accessToken string) (calendarAPI, error)
}

// calendarAPI is the slice of the Google Calendar API the sync needs.
type calendarAPI interface {
	ListEvents(ctx context.Context, timeMin, timeMax string) ([]externalEvent, error)
}

// externalEvent is a provider-neutral view of a synced calendar entry.
type externalEvent struct {
	ID        string
	Title     string
	Start     string // ISO date-time, or "YYYY-MM-DD" for all-day events
	End       string
	AllDay    bool
	Cancelled bool
}

// NewGoogleCalendarService constructs the default CalendarService.
func NewGoogleCalendarService(events eventRepo.EventRepository, logger *zap.Logger) *GoogleCalendarService {
	return &GoogleCalendarService{
		Events:    events,
		Logger:    logger,
		newClient: newGoogleClient,
	}
}
