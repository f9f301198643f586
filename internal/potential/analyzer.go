// Package potential scores how promising current astrological conditions are
// for a given life category, producing a clamped confidence value and an
// ordered list of human-readable contributing factors.
package potential

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/internal/astro"
	"github.com/astrovia/engine/models"
)

// Contribution weights of the scoring model.
const (
	houseActivationWeight = 0.2
	transitAspectWeight   = 0.3
	baseConfidenceBlend   = 0.3
)

// Analyzer combines transits, the natal chart and the lunar phase into a
// category confidence score.
type Analyzer struct {
	cfg    astro.Config
	logger zerolog.Logger
}

// New creates an analyzer over an immutable astro configuration.
func New(cfg astro.Config) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: log.With().Str("component", "potential_analyzer").Logger(),
	}
}

// Analyze scores the category against current conditions. It returns
// ErrInsufficientConditions when nothing astrological contributed at all;
// a low-but-nonzero result is floored and annotated instead.
func (a *Analyzer) Analyze(
	category models.Category,
	transits *models.TransitSnapshot,
	chart *models.BirthChart,
	transitAspects []models.Aspect,
) (*models.Potential, error) {

	profile, err := a.cfg.Profile(category)
	if err != nil {
		return nil, err
	}

	confidence := 0.0
	var factors []models.Factor

	// House activations: category bodies currently moving through the
	// category's relevant houses.
	for _, body := range profile.Bodies {
		pos, ok := transits.Positions[body]
		if !ok {
			continue
		}
		if !containsInt(profile.Houses, pos.House) {
			continue
		}
		confidence += houseActivationWeight
		factors = append(factors, models.Factor{
			Text: fmt.Sprintf("%s is moving through house %d, activating %s matters",
				bodyName(body), pos.House, category),
			Body:     body,
			House:    pos.House,
			Strength: houseActivationWeight,
		})
	}

	// Favorable transit-to-natal aspects from the category's bodies.
	for _, asp := range transitAspects {
		if !containsAspect(profile.FavorableAspects, asp.Type) {
			continue
		}
		if !containsBody(profile.Bodies, asp.BodyA) {
			continue
		}
		confidence += asp.Strength * transitAspectWeight
		motion := "separating"
		if asp.Applying {
			motion = "applying"
		}
		factors = append(factors, models.Factor{
			Text: fmt.Sprintf("Transiting %s %s natal %s (%s, strength %.2f)",
				bodyName(asp.BodyA), asp.Type, bodyName(asp.BodyB), motion, asp.Strength),
			Body:     asp.BodyA,
			Aspect:   asp.Type,
			Strength: asp.Strength,
		})
	}

	// Lunar phase boost.
	if transits.LunarPhase.Name != "" {
		confidence += transits.LunarPhase.Boost
		factors = append(factors, models.Factor{
			Text: fmt.Sprintf("%s amplifies %s energy (boost %.1f)",
				transits.LunarPhase.Name, category, transits.LunarPhase.Boost),
			Strength: transits.LunarPhase.Boost,
		})
	}

	hadSignal := len(factors) > 0

	// Blend in the category baseline at 30% weight.
	confidence = confidence*(1-baseConfidenceBlend) + profile.BaseConfidence*baseConfidenceBlend

	if transits.Approximate || (chart != nil && chart.Approximate) {
		confidence *= a.cfg.DegradedPenalty
		factors = append(factors, models.Factor{
			Text: "Positions approximated while the ephemeris is unavailable",
		})
	}

	if !hadSignal {
		if confidence < a.cfg.MinConfidence {
			return nil, fmt.Errorf("%w: no active factors for %s", models.ErrInsufficientConditions, category)
		}
		factors = append(factors, models.Factor{Text: "Using baseline patterns for " + string(category)})
	}

	if confidence < a.cfg.MinConfidence {
		confidence = a.cfg.MinConfidence
		factors = append(factors, models.Factor{Text: "Using baseline patterns for " + string(category)})
	}
	if confidence > a.cfg.MaxConfidence {
		confidence = a.cfg.MaxConfidence
	}

	a.logger.Debug().
		Str("category", string(category)).
		Float64("confidence", confidence).
		Int("factors", len(factors)).
		Msg("analyzed potential")

	return &models.Potential{
		Category:   category,
		Confidence: confidence,
		Factors:    factors,
	}, nil
}

func bodyName(b models.Body) string {
	name := strings.ReplaceAll(string(b), "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsBody(list []models.Body, v models.Body) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsAspect(list []models.AspectType, v models.AspectType) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
