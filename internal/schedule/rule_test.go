package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayRule(t *testing.T) Rule {
	t.Helper()
	// Mon-Fri 08:00-22:00, the seeded auditorium schedule
	r, err := NewRule([]int{1, 2, 3, 4, 5}, "08:00", "22:00")
	require.NoError(t, err)
	return r
}

func TestNewRule_Validation(t *testing.T) {
	_, err := NewRule([]int{1}, "22:00", "08:00")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewRule([]int{1}, "8am", "22:00")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewRule([]int{7}, "08:00", "22:00")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewRule(nil, "08:00", "22:00")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewRule([]int{0, 6}, "10:00", "24:00")
	assert.NoError(t, err)
}

func TestRule_RejectsClosedWeekday(t *testing.T) {
	r := weekdayRule(t)

	// Saturday January 11th 2025
	sat := mustWindow(t, time.Date(2025, 1, 11, 10, 0, 0, 0, time.UTC), time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC))
	err := r.Check(sat)
	assert.ErrorIs(t, err, ErrOutsideHours)
	assert.False(t, r.Contains(sat))
}

func TestRule_ClosingBoundaryInclusive(t *testing.T) {
	r := weekdayRule(t)

	// Friday January 10th, 21:00-22:00: ends exactly at close
	fri := mustWindow(t, time.Date(2025, 1, 10, 21, 0, 0, 0, time.UTC), time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC))
	assert.NoError(t, r.Check(fri))

	// one minute past close
	late := mustWindow(t, time.Date(2025, 1, 10, 21, 0, 0, 0, time.UTC), time.Date(2025, 1, 10, 22, 1, 0, 0, time.UTC))
	assert.ErrorIs(t, r.Check(late), ErrOutsideHours)
}

func TestRule_OpeningBoundary(t *testing.T) {
	r := weekdayRule(t)

	open := mustWindow(t, at(6, 8, 0), at(6, 9, 0))
	assert.NoError(t, r.Check(open))

	early := mustWindow(t, at(6, 7, 30), at(6, 9, 0))
	assert.ErrorIs(t, r.Check(early), ErrOutsideHours)
}

func TestRule_CrossMidnightRejected(t *testing.T) {
	r := weekdayRule(t)

	// Monday 20:00 -> Tuesday 02:00
	w := mustWindow(t, at(6, 20, 0), at(7, 2, 0))
	assert.ErrorIs(t, r.Check(w), ErrCrossesMidnight)
}

func TestRule_MultiDayAtBoundaries(t *testing.T) {
	// a rule open around the clock accepts a span cut exactly at midnight
	r, err := NewRule([]int{1, 2}, "00:00", "24:00")
	require.NoError(t, err)

	w := mustWindow(t, at(6, 20, 0), at(7, 2, 0))
	assert.NoError(t, r.Check(w))

	// same span but Wednesday is not open
	w = mustWindow(t, at(7, 20, 0), at(8, 2, 0))
	assert.ErrorIs(t, r.Check(w), ErrOutsideHours)
}
