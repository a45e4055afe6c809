package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"eisenflow/models"
)

// defaultDailyStart is assumed when a fixed task has no start time.
const defaultDailyStart = "09:00"

// RecurringTaskSpec is the planner's view of a fixed task. ReferenceDate
// anchors the None rule (exact-date match) and the Weekly rule (day-of-week
// match).
type RecurringTaskSpec struct {
	ID             string
	Title          string
	DailyStart     string // "HH:MM", defaults to 09:00 when empty
	DailyFinish    string // "HH:MM", empty means derive from EstimatedHours
	Rule           models.Recurrence
	ReferenceDate  string // "YYYY-MM-DD"
	EstimatedHours float64
}

// EventInstance is one concrete occurrence of a fixed task. The ID is
// deterministic in (task, date) so a re-expansion over the same window
// produces identical instances and can replace a prior batch wholesale.
type EventInstance struct {
	ID           string
	Title        string
	Start        time.Time
	End          time.Time
	SourceTaskID string
}

// ExpandRecurringTasks materializes each task into instances across
// [windowStart, windowStart+daysToExpand). At most one instance per task per
// calendar day is produced. Date selection for the repeating rules is driven
// by rrule rule sets anchored at the window start; the None rule is a plain
// reference-date equality check.
func ExpandRecurringTasks(tasks []RecurringTaskSpec, windowStart time.Time, daysToExpand int) ([]EventInstance, error) {
	if daysToExpand < 1 {
		return nil, ErrInvalidHorizon
	}

	out := make([]EventInstance, 0)

	for _, task := range tasks {
		instances, err := expandTask(task, windowStart, daysToExpand)
		if err != nil {
			return nil, fmt.Errorf("planner: task %q: %w", task.ID, err)
		}
		out = append(out, instances...)
	}

	return out, nil
}

func expandTask(task RecurringTaskSpec, windowStart time.Time, daysToExpand int) ([]EventInstance, error) {
	startClock := task.DailyStart
	if startClock == "" {
		startClock = defaultDailyStart
	}
	startHour, startMin, err := parseClock(startClock)
	if err != nil {
		return nil, err
	}

	dates, err := occurrenceDates(task, windowStart, daysToExpand, startHour, startMin)
	if err != nil {
		return nil, err
	}

	var out []EventInstance
	for _, start := range dates {
		end, err := instanceEnd(task, start, startHour, startMin)
		if err != nil {
			return nil, err
		}
		out = append(out, EventInstance{
			ID:           "fixed-" + task.ID + "-" + start.Format("2006-01-02"),
			Title:        task.Title,
			Start:        start,
			End:          end,
			SourceTaskID: task.ID,
		})
	}
	return out, nil
}

// occurrenceDates returns the instance start instants for the task inside the
// window, ascending.
func occurrenceDates(task RecurringTaskSpec, windowStart time.Time, daysToExpand int, hour, min int) ([]time.Time, error) {
	year, month, day := windowStart.Date()
	loc := windowStart.Location()
	firstStart := time.Date(year, month, day, hour, min, 0, 0, loc)
	lastStart := firstStart.AddDate(0, 0, daysToExpand-1)

	// A task without a reference date anchors on the window start.
	refDate := task.ReferenceDate
	if refDate == "" {
		refDate = windowStart.Format("2006-01-02")
	}

	switch task.Rule {
	case models.RecurrenceNone, "":
		ref, err := parseDate(refDate, loc)
		if err != nil {
			return nil, err
		}
		for i := 0; i < daysToExpand; i++ {
			date := windowStart.AddDate(0, 0, i)
			if sameDate(date, ref) {
				y, m, d := date.Date()
				return []time.Time{time.Date(y, m, d, hour, min, 0, 0, loc)}, nil
			}
		}
		return nil, nil

	case models.RecurrenceDaily:
		return ruleDates(rrule.ROption{
			Freq:    rrule.DAILY,
			Dtstart: firstStart,
			Until:   lastStart,
		})

	case models.RecurrenceWeekdays:
		return ruleDates(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
			Dtstart:   firstStart,
			Until:     lastStart,
		})

	case models.RecurrenceWeekly:
		ref, err := parseDate(refDate, loc)
		if err != nil {
			return nil, err
		}
		return ruleDates(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rruleWeekday(ref.Weekday())},
			Dtstart:   firstStart,
			Until:     lastStart,
		})

	default:
		return nil, fmt.Errorf("unknown recurrence rule %q", task.Rule)
	}
}

func ruleDates(opt rrule.ROption) ([]time.Time, error) {
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}
	return rule.All(), nil
}

// instanceEnd derives the finish instant for one occurrence. A finish clock
// at or before the start clock wraps past midnight onto the next day; a
// missing finish clock falls back to the estimated duration, never shorter
// than one hour.
func instanceEnd(task RecurringTaskSpec, start time.Time, startHour, startMin int) (time.Time, error) {
	if task.DailyFinish == "" {
		hours := task.EstimatedHours
		if hours <= 0 {
			hours = 1
		}
		return start.Add(time.Duration(hours * float64(time.Hour))), nil
	}

	endHour, endMin, err := parseClock(task.DailyFinish)
	if err != nil {
		return time.Time{}, err
	}

	year, month, day := start.Date()
	end := time.Date(year, month, day, endHour, endMin, 0, 0, start.Location())
	if endHour*60+endMin <= startHour*60+startMin {
		end = end.AddDate(0, 0, 1)
	}
	return end, nil
}

func rruleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}

func parseClock(s string) (hour, min int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	min, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	return hour, min, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	// Reference dates may arrive as full ISO timestamps; only the date part
	// matters.
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		s = s[:idx]
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference date %q", s)
	}
	return t, nil
}
