package astro

import (
	"fmt"

	"github.com/astrovia/engine/models"
)

// Config is the immutable calculation configuration: aspect geometry, orb
// tolerances and per-category profiles. Constructed once and passed into the
// calculators so the math stays pure and testable with alternate tolerances.
type Config struct {
	// Angles maps each aspect type to its exact target separation.
	Angles map[models.AspectType]float64
	// Orbs maps each aspect type to its tolerance in degrees.
	Orbs map[models.AspectType]float64
	// IncludeMinorAspects enables semisextile/semisquare/sesquisquare.
	IncludeMinorAspects bool

	MinConfidence float64
	MaxConfidence float64
	// DegradedPenalty scales confidence when positions came from the
	// mean-motion fallback instead of the real ephemeris.
	DegradedPenalty float64

	Categories map[models.Category]CategoryProfile
}

// CategoryProfile is the data-driven dispatch for one life category.
type CategoryProfile struct {
	Bodies           []models.Body
	Houses           []int
	FavorableAspects []models.AspectType
	BaseConfidence   float64
	Premium          bool
}

// Profile returns the configuration for a category or an error for unknown
// ones, so a bad category never silently scores zero.
func (c Config) Profile(cat models.Category) (CategoryProfile, error) {
	p, ok := c.Categories[cat]
	if !ok {
		return CategoryProfile{}, fmt.Errorf("unknown category %q", cat)
	}
	return p, nil
}

// ActiveAspects returns the aspect types in effect under this config.
func (c Config) ActiveAspects() []models.AspectType {
	types := []models.AspectType{
		models.Conjunction, models.Sextile, models.Square,
		models.Trine, models.Quincunx, models.Opposition,
	}
	if c.IncludeMinorAspects {
		types = append(types, models.Semisextile, models.Semisquare, models.Sesquisquare)
	}
	return types
}

// DefaultConfig returns the standard aspect table and category profiles.
func DefaultConfig() Config {
	return Config{
		Angles: map[models.AspectType]float64{
			models.Conjunction:  0,
			models.Semisextile:  30,
			models.Semisquare:   45,
			models.Sextile:      60,
			models.Square:       90,
			models.Trine:        120,
			models.Sesquisquare: 135,
			models.Quincunx:     150,
			models.Opposition:   180,
		},
		Orbs: map[models.AspectType]float64{
			models.Conjunction:  8,
			models.Opposition:   8,
			models.Trine:        6,
			models.Square:       6,
			models.Sextile:      4,
			models.Quincunx:     3,
			models.Semisextile:  2,
			models.Semisquare:   2,
			models.Sesquisquare: 2.5,
		},
		MinConfidence:   0.3,
		MaxConfidence:   0.95,
		DegradedPenalty: 0.85,
		Categories: map[models.Category]CategoryProfile{
			models.CategoryLove: {
				Bodies:           []models.Body{models.Venus, models.Moon, models.Mars},
				Houses:           []int{5, 7, 8},
				FavorableAspects: []models.AspectType{models.Conjunction, models.Trine, models.Sextile},
				BaseConfidence:   0.55,
			},
			models.CategoryCareer: {
				Bodies:           []models.Body{models.Sun, models.Mars, models.Jupiter, models.Saturn},
				Houses:           []int{2, 6, 10},
				FavorableAspects: []models.AspectType{models.Conjunction, models.Trine, models.Sextile},
				BaseConfidence:   0.5,
				Premium:          true,
			},
			models.CategoryFinance: {
				Bodies:           []models.Body{models.Venus, models.Jupiter, models.Saturn},
				Houses:           []int{2, 8, 11},
				FavorableAspects: []models.AspectType{models.Conjunction, models.Trine, models.Sextile},
				BaseConfidence:   0.5,
				Premium:          true,
			},
			models.CategoryHealth: {
				Bodies:           []models.Body{models.Sun, models.Moon, models.Mars},
				Houses:           []int{1, 6, 12},
				FavorableAspects: []models.AspectType{models.Trine, models.Sextile},
				BaseConfidence:   0.45,
			},
			models.CategorySocial: {
				Bodies:           []models.Body{models.Mercury, models.Venus, models.Moon},
				Houses:           []int{3, 7, 11},
				FavorableAspects: []models.AspectType{models.Conjunction, models.Trine, models.Sextile},
				BaseConfidence:   0.5,
			},
			models.CategoryTravel: {
				Bodies:           []models.Body{models.Jupiter, models.Mercury, models.Sun},
				Houses:           []int{3, 9, 12},
				FavorableAspects: []models.AspectType{models.Conjunction, models.Trine, models.Sextile},
				BaseConfidence:   0.45,
			},
		},
	}
}
