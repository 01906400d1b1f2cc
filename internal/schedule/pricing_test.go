package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_WholeHours(t *testing.T) {
	// 14:00-17:00 at R$80/h
	w := mustWindow(t, at(6, 14, 0), at(6, 17, 0))
	assert.Equal(t, 240.0, Price(w, 80))
}

func TestPrice_FractionalHours(t *testing.T) {
	w := mustWindow(t, at(6, 10, 0), at(6, 11, 30))
	assert.Equal(t, 120.0, Price(w, 80))

	// 50 minutes at R$80/h: 66.666... rounds half-up to 66.67
	w = mustWindow(t, at(6, 10, 0), at(6, 10, 50))
	assert.Equal(t, 66.67, Price(w, 80))
}

func TestPriceBatch_PerWindowRounding(t *testing.T) {
	// three 50-minute windows: 3 * 66.67, not round(200.00...)
	w := mustWindow(t, at(6, 10, 0), at(6, 10, 50))
	windows, err := Expand(w, Policy{Frequency: FrequencyDaily, Count: 3})
	require.NoError(t, err)

	assert.Equal(t, 200.01, PriceBatch(windows, 80))
}

func TestPrice_ZeroRate(t *testing.T) {
	w := mustWindow(t, at(6, 10, 0), at(6, 12, 0))
	assert.Equal(t, 0.0, Price(w, 0))
}
