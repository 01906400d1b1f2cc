package schedule

import (
	"fmt"
	"time"
)

// Frequency enumerates the supported recurrence intervals.
type Frequency int

const (
	FrequencyNone Frequency = iota
	FrequencyDaily
	FrequencyWeekly
	FrequencyMonthly
)

// MaxOccurrences caps recurrence expansion to keep batches bounded.
const MaxOccurrences = 52

func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "", "none":
		return FrequencyNone, nil
	case "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	default:
		return FrequencyNone, fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, s)
	}
}

func (f Frequency) String() string {
	switch f {
	case FrequencyDaily:
		return "daily"
	case FrequencyWeekly:
		return "weekly"
	case FrequencyMonthly:
		return "monthly"
	default:
		return "none"
	}
}

// Policy describes how one requested window expands into a series.
type Policy struct {
	Frequency Frequency
	Count     int
}

// Expand generates the ordered concrete windows for the policy. Each step adds
// one day, seven days or one calendar month to the previous start, preserving
// duration and time-of-day. Monthly day-of-month overflow clamps to the last
// valid day of the target month (Jan 31 -> Feb 28/29), an explicit policy
// rather than silent truncation.
func Expand(first Window, p Policy) ([]Window, error) {
	if p.Frequency == FrequencyNone {
		return []Window{first}, nil
	}
	if p.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrInvalidRecurrence)
	}
	if p.Count > MaxOccurrences {
		return nil, fmt.Errorf("%w: count %d exceeds maximum %d", ErrInvalidRecurrence, p.Count, MaxOccurrences)
	}

	duration := first.Duration()
	windows := make([]Window, 0, p.Count)
	start := first.Start
	for i := 0; i < p.Count; i++ {
		if i > 0 {
			switch p.Frequency {
			case FrequencyDaily:
				start = start.AddDate(0, 0, 1)
			case FrequencyWeekly:
				start = start.AddDate(0, 0, 7)
			case FrequencyMonthly:
				start = addMonthClamped(start)
			default:
				return nil, fmt.Errorf("%w: unsupported frequency", ErrInvalidRecurrence)
			}
		}
		windows = append(windows, Window{Start: start, End: start.Add(duration)})
	}
	return windows, nil
}

func addMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	last := daysInMonth(y, m+1)
	if d > last {
		d = last
	}
	return time.Date(y, m+1, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the following month normalizes to the last day of month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
