package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_None(t *testing.T) {
	first := mustWindow(t, at(6, 10, 0), at(6, 11, 0))

	windows, err := Expand(first, Policy{Frequency: FrequencyNone})
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, first, windows[0])
}

func TestExpand_WeeklyDeterminism(t *testing.T) {
	// Monday 10:00-11:00
	first := mustWindow(t, at(6, 10, 0), at(6, 11, 0))

	windows, err := Expand(first, Policy{Frequency: FrequencyWeekly, Count: 4})
	require.NoError(t, err)
	require.Len(t, windows, 4)

	for i, w := range windows {
		assert.Equal(t, first.Start.AddDate(0, 0, 7*i), w.Start, "window %d start", i)
		assert.Equal(t, time.Hour, w.Duration(), "window %d duration", i)
		assert.Equal(t, time.Monday, w.Start.Weekday(), "window %d weekday", i)
		assert.Equal(t, 10, w.Start.Hour(), "window %d time-of-day", i)
	}
}

func TestExpand_Daily(t *testing.T) {
	first := mustWindow(t, at(6, 14, 0), at(6, 16, 0))

	windows, err := Expand(first, Policy{Frequency: FrequencyDaily, Count: 3})
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, at(7, 14, 0), windows[1].Start)
	assert.Equal(t, at(8, 14, 0), windows[2].Start)
}

func TestExpand_MonthlyClampsOverflow(t *testing.T) {
	// January 31st 2025, 10:00-12:00
	first := mustWindow(t,
		time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC))

	windows, err := Expand(first, Policy{Frequency: FrequencyMonthly, Count: 4})
	require.NoError(t, err)
	require.Len(t, windows, 4)

	// Feb has 28 days in 2025: clamp, then stay on the clamped day-of-month
	assert.Equal(t, time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC), windows[1].Start)
	assert.Equal(t, time.Date(2025, 3, 28, 10, 0, 0, 0, time.UTC), windows[2].Start)
	assert.Equal(t, time.Date(2025, 4, 28, 10, 0, 0, 0, time.UTC), windows[3].Start)
	for i, w := range windows {
		assert.Equal(t, 2*time.Hour, w.Duration(), "window %d duration", i)
	}
}

func TestExpand_CountBounds(t *testing.T) {
	first := mustWindow(t, at(6, 10, 0), at(6, 11, 0))

	_, err := Expand(first, Policy{Frequency: FrequencyWeekly, Count: 0})
	assert.ErrorIs(t, err, ErrInvalidRecurrence)

	_, err = Expand(first, Policy{Frequency: FrequencyDaily, Count: -2})
	assert.ErrorIs(t, err, ErrInvalidRecurrence)

	_, err = Expand(first, Policy{Frequency: FrequencyWeekly, Count: MaxOccurrences + 1})
	assert.ErrorIs(t, err, ErrInvalidRecurrence)

	windows, err := Expand(first, Policy{Frequency: FrequencyWeekly, Count: MaxOccurrences})
	assert.NoError(t, err)
	assert.Len(t, windows, MaxOccurrences)
}

func TestParseFrequency(t *testing.T) {
	for s, want := range map[string]Frequency{
		"":        FrequencyNone,
		"none":    FrequencyNone,
		"daily":   FrequencyDaily,
		"weekly":  FrequencyWeekly,
		"monthly": FrequencyMonthly,
	} {
		got, err := ParseFrequency(s)
		assert.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseFrequency("yearly")
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}
