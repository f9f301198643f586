package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 UT).
const J2000 = 2451545.0

// JulianDay converts a proleptic-Gregorian civil instant (UTC) into a Julian
// Day number. hour carries the fractional part (14:30 -> 14.5).
func JulianDay(year, month, day int, hour float64) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + b - 1524.5 + hour/24
}

// JulianDayFromTime converts a time.Time (interpreted in UTC) to a Julian Day.
func JulianDayFromTime(t time.Time) float64 {
	t = t.UTC()
	hour := float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600
	return JulianDay(t.Year(), int(t.Month()), t.Day(), hour)
}

// normalizeDegrees wraps an angle into [0, 360).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
