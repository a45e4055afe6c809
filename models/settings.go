package models

// PlannerSettings holds a user's working-window preferences. Hours are whole
// local hours; DayStartHour must be strictly less than DayEndHour.
type PlannerSettings struct {
	UserID       string `bson:"userId" json:"-"`
	DayStartHour int    `bson:"dayStartHour" json:"dayStartHour"`
	DayEndHour   int    `bson:"dayEndHour" json:"dayEndHour"`
	WorkWeekOnly bool   `bson:"workWeekOnly" json:"workWeekOnly"`
	DaysToPlan   int    `bson:"daysToPlan" json:"daysToPlan"`
}
