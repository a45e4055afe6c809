package models

import "time"

// Reminder kinds: warning a few minutes ahead, and at event start.
const (
	ReminderKindWarn  = "5min"
	ReminderKindStart = "start"
)

// ReminderPayload is the asynq task payload for one event reminder.
type ReminderPayload struct {
	UserID  string `json:"userId"`
	EventID string `json:"eventId"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	FireAt  string `json:"fireAt"` // ISO 8601
}

// Notification is a delivered reminder the client polls for.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"-"`
	EventID   string    `bson:"eventId" json:"eventId"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	Kind      string    `bson:"kind" json:"kind"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	Read      bool      `bson:"read" json:"read"`
}
