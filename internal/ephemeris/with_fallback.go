package ephemeris

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/models"
)

// withFallback defers to the primary ephemeris and switches to the degraded
// approximation only when the primary is unavailable as a whole. Per-body
// failures pass through untouched.
type withFallback struct {
	primary  models.Ephemeris
	fallback models.Ephemeris
	logger   zerolog.Logger
}

// WithFallback wraps primary so that total outages degrade instead of fail.
func WithFallback(primary, fallback models.Ephemeris) models.Ephemeris {
	return &withFallback{
		primary:  primary,
		fallback: fallback,
		logger:   log.With().Str("component", "ephemeris_fallback").Logger(),
	}
}

func (w *withFallback) Positions(ctx context.Context, julianDay float64, bodies []models.Body) (*models.PositionSet, error) {
	set, err := w.primary.Positions(ctx, julianDay, bodies)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, models.ErrEphemerisUnavailable) {
		return nil, err
	}
	w.logger.Warn().Err(err).Msg("ephemeris unavailable, using mean-motion approximation")
	return w.fallback.Positions(ctx, julianDay, bodies)
}

func (w *withFallback) Houses(ctx context.Context, julianDay, lat, lon float64, system models.HouseSystem) (*models.HouseData, error) {
	houses, err := w.primary.Houses(ctx, julianDay, lat, lon, system)
	if err == nil {
		return houses, nil
	}
	if !errors.Is(err, models.ErrEphemerisUnavailable) {
		return nil, err
	}
	w.logger.Warn().Err(err).Msg("house calculation unavailable, using equal-house approximation")
	return w.fallback.Houses(ctx, julianDay, lat, lon, system)
}
