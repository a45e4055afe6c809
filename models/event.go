package models

// CalendarEvent kinds.
const (
	EventTypeMeeting   = "meeting"
	EventTypeTaskBlock = "task_block"
	EventTypeBreak     = "break"
)

// CalendarEvent is one entry on a user's calendar. Fixed events come from
// manual entry, Google Calendar sync (id prefix "google-") or recurring-task
// expansion (id prefix "fixed-"); non-fixed events are engine-generated task
// blocks and are replaced wholesale on every regeneration.
type CalendarEvent struct {
	ID     string `bson:"id" json:"id"`
	UserID string `bson:"userId" json:"-"`
	Title  string `bson:"title" json:"title"`

	Start string `bson:"start" json:"start"` // ISO 8601 date-time, minute precision
	End   string `bson:"end" json:"end"`

	Type      string `bson:"type" json:"type"`
	TaskID    string `bson:"taskId,omitempty" json:"taskId,omitempty"`
	IsFixed   bool   `bson:"isFixed" json:"isFixed"`
	Reasoning string `bson:"reasoning,omitempty" json:"reasoning,omitempty"`
	Quadrant  string `bson:"quadrant,omitempty" json:"quadrant,omitempty"`
}

// DaySchedule groups a day's events for rendering.
type DaySchedule struct {
	Date   string          `json:"date"` // "YYYY-MM-DD"
	Events []CalendarEvent `json:"events"`
}
