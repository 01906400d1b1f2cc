package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRule = errors.New("schedule: invalid availability rule")

const minutesPerDay = 24 * 60

// Rule is a room's recurring open-hours policy: allowed weekdays plus a daily
// time range in minutes from midnight. DailyEnd is inclusive as a booking end
// boundary, so a window closing exactly at DailyEnd is accepted.
type Rule struct {
	weekdays   map[time.Weekday]struct{}
	dailyStart int
	dailyEnd   int
}

// NewRule builds a rule from weekday numbers (0=Sunday..6=Saturday) and
// "HH:MM" daily bounds. "24:00" is accepted as an end-of-day close.
func NewRule(days []int, startTime, endTime string) (Rule, error) {
	start, err := parseTimeOfDay(startTime)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: start %q", ErrInvalidRule, startTime)
	}
	end, err := parseTimeOfDay(endTime)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: end %q", ErrInvalidRule, endTime)
	}
	if start >= end {
		return Rule{}, fmt.Errorf("%w: daily start must precede daily end", ErrInvalidRule)
	}
	weekdays := make(map[time.Weekday]struct{}, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return Rule{}, fmt.Errorf("%w: weekday %d", ErrInvalidRule, d)
		}
		weekdays[time.Weekday(d)] = struct{}{}
	}
	if len(weekdays) == 0 {
		return Rule{}, fmt.Errorf("%w: no weekdays", ErrInvalidRule)
	}
	return Rule{weekdays: weekdays, dailyStart: start, dailyEnd: end}, nil
}

func parseTimeOfDay(s string) (int, error) {
	if s == "24:00" {
		return minutesPerDay, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Check validates a window against the rule. Multi-day windows are split into
// per-day segments, each validated on its own; a segment that runs over a
// midnight boundary the rule does not open is reported as ErrCrossesMidnight,
// any other violation as ErrOutsideHours.
func (r Rule) Check(w Window) error {
	multiDay := false
	for cur := w.Start; cur.Before(w.End); {
		dayStart := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, cur.Location())
		nextDay := dayStart.AddDate(0, 0, 1)

		segStart := cur
		segEnd := w.End
		if nextDay.Before(segEnd) {
			segEnd = nextDay
			multiDay = true
		}

		startMin := segStart.Hour()*60 + segStart.Minute()
		endMin := segEnd.Hour()*60 + segEnd.Minute()
		if endMin == 0 && segEnd.After(segStart) {
			endMin = minutesPerDay
		}

		if _, ok := r.weekdays[segStart.Weekday()]; !ok {
			return fmt.Errorf("%w: %s is closed", ErrOutsideHours, segStart.Weekday())
		}
		if startMin < r.dailyStart || endMin > r.dailyEnd {
			if multiDay && (startMin == 0 || endMin == minutesPerDay) {
				return ErrCrossesMidnight
			}
			return fmt.Errorf("%w: %02d:%02d-%02d:%02d not within %02d:%02d-%02d:%02d",
				ErrOutsideHours,
				startMin/60, startMin%60, endMin/60, endMin%60,
				r.dailyStart/60, r.dailyStart%60, r.dailyEnd/60, r.dailyEnd%60)
		}

		cur = nextDay
	}
	return nil
}

// Contains is the boolean form of Check.
func (r Rule) Contains(w Window) bool {
	return r.Check(w) == nil
}
