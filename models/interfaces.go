package models

import "context"

// EphemerisPosition is the raw output for one body.
type EphemerisPosition struct {
	Longitude float64 `json:"longitude"` // ecliptic, degrees 0..360
	Latitude  float64 `json:"latitude"`  // ecliptic, degrees
	Distance  float64 `json:"distance"`  // AU
	Speed     float64 `json:"speed"`     // degrees/day, negative = retrograde
}

// PositionSet distinguishes per-body failures from total unavailability:
// a body missing from Positions appears in Failed with a reason.
type PositionSet struct {
	Positions   map[Body]EphemerisPosition
	Failed      map[Body]string
	Approximate bool // produced by the mean-motion fallback, not the real ephemeris
}

// HouseData is the raw house calculation output.
type HouseData struct {
	Cusps     [12]float64 `json:"cusps"`
	Ascendant float64     `json:"ascendant"`
	Midheaven float64     `json:"midheaven"`
}

// Ephemeris is the narrow port over the external astronomical computation
// capability. Implementations return ErrEphemerisUnavailable (possibly
// wrapped) when the capability as a whole is down; individual body failures
// go into PositionSet.Failed instead.
type Ephemeris interface {
	Positions(ctx context.Context, julianDay float64, bodies []Body) (*PositionSet, error)
	Houses(ctx context.Context, julianDay, lat, lon float64, system HouseSystem) (*HouseData, error)
}
