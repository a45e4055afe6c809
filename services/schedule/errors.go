// File: services/schedule/errors.go
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCapacity is returned when the whole planning horizon yields no free
// slot at all. The empty slot list itself is not an error of the slot
// computation; turning it into a user-facing failure is this layer's call.
var ErrNoCapacity = errors.New("it is impossible to generate the plan based on current constraints; increase the available daily hours in settings or extend the deadlines of your tasks")

// ErrInvalidWindow is returned for an unparseable start date or a
// non-positive day count.
var ErrInvalidWindow = errors.New("invalid planning window")

// OverflowError is the engine's verdict that the flexible tasks cannot fit
// the free slots, with the bottleneck tasks called out.
type OverflowError struct {
	CulpritTitles []string
	Reason        string
}

func (e *OverflowError) Error() string {
	msg := "Planning Failed."
	if e.Reason != "" {
		msg += " Reason: " + e.Reason
	}
	if len(e.CulpritTitles) > 0 {
		quoted := make([]string, len(e.CulpritTitles))
		for i, t := range e.CulpritTitles {
			quoted[i] = fmt.Sprintf("%q", t)
		}
		msg += " Specifically: " + strings.Join(quoted, ", ") + "."
	}
	return msg + " Please decrease task duration or extend deadlines."
}
