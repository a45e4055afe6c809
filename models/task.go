package models

import "time"

// Recurrence describes the repetition pattern of a fixed task.
type Recurrence string

const (
	RecurrenceNone     Recurrence = "none"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekdays Recurrence = "weekdays"
	RecurrenceWeekly   Recurrence = "weekly"
)

// Task status values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task is a user task in the Eisenhower matrix. Flexible tasks (IsFixed=false)
// are placed into free slots by the scheduling engine; fixed tasks carry a
// daily start/finish time and an optional recurrence and are expanded into
// calendar events before planning.
type Task struct {
	ID          string `bson:"id" json:"id"`
	UserID      string `bson:"userId" json:"-"`
	Title       string `bson:"title" json:"title" binding:"required"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	Relevance int `bson:"relevance" json:"relevance"` // importance, 1-5
	Urgency   int `bson:"urgency" json:"urgency"`     // 1-5

	Deadline       string  `bson:"deadline,omitempty" json:"deadline,omitempty"` // "YYYY-MM-DD"
	EstimatedHours float64 `bson:"estimatedHours" json:"estimatedHours"`

	Status      string     `bson:"status" json:"status"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	IsFixed    bool       `bson:"isFixed" json:"isFixed"`
	Recurrence Recurrence `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	StartTime  string     `bson:"startTime,omitempty" json:"startTime,omitempty"`   // "HH:MM"
	FinishTime string     `bson:"finishTime,omitempty" json:"finishTime,omitempty"` // "HH:MM"

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PriorityScore is the combined ranking used when ordering tasks for the
// scheduling engine. Missing values default to the midpoint.
func (t Task) PriorityScore() int {
	relevance := t.Relevance
	if relevance == 0 {
		relevance = 3
	}
	urgency := t.Urgency
	if urgency == 0 {
		urgency = 3
	}
	return relevance + urgency
}

// Quadrant maps relevance/urgency onto the Eisenhower quadrants.
func (t Task) Quadrant() string {
	important := t.Relevance >= 3
	urgent := t.Urgency >= 3
	switch {
	case important && urgent:
		return "Q1"
	case important:
		return "Q2"
	case urgent:
		return "Q3"
	default:
		return "Q4"
	}
}
