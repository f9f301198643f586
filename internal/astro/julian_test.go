package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    int
		day      int
		hour     float64
		expected float64
	}{
		{"J2000 epoch", 2000, 1, 1, 12, 2451545.0},
		{"1987-01-27 midnight", 1987, 1, 27, 0, 2446822.5},
		{"1988-06-19 noon", 1988, 6, 19, 12, 2447332.0},
		{"1600-01-01 midnight", 1600, 1, 1, 0, 2305447.5},
		{"fractional hour", 2000, 1, 1, 18, 2451545.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDay(tt.year, tt.month, tt.day, tt.hour)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestJulianDayFromTime(t *testing.T) {
	epoch := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2451545.0, JulianDayFromTime(epoch), 1e-9)

	// Non-UTC input must be converted, not taken at face value.
	est := time.FixedZone("EST", -5*3600)
	same := time.Date(2000, time.January, 1, 7, 0, 0, 0, est)
	assert.InDelta(t, 2451545.0, JulianDayFromTime(same), 1e-9)
}

func TestNormalizeDegrees(t *testing.T) {
	assert.InDelta(t, 10.0, normalizeDegrees(370), 1e-9)
	assert.InDelta(t, 350.0, normalizeDegrees(-10), 1e-9)
	assert.InDelta(t, 0.0, normalizeDegrees(720), 1e-9)
}
