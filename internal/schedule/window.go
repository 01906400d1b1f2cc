package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWindow     = errors.New("schedule: invalid window")
	ErrCrossesMidnight   = errors.New("schedule: window crosses midnight")
	ErrOutsideHours      = errors.New("schedule: window outside operating hours")
	ErrInvalidRecurrence = errors.New("schedule: invalid recurrence")
)

// MaxWindowSpan bounds a single booking window. Longer spans have to be split
// into separate bookings.
const MaxWindowSpan = 12 * time.Hour

// Window is a half-open interval [Start, End). Value semantics: construct via
// NewWindow and never mutate.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, fmt.Errorf("%w: start must precede end", ErrInvalidWindow)
	}
	if end.Sub(start) > MaxWindowSpan {
		return Window{}, fmt.Errorf("%w: span exceeds %s", ErrInvalidWindow, MaxWindowSpan)
	}
	return Window{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) Hours() float64 {
	return w.Duration().Hours()
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
