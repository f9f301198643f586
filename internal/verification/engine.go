package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/models"
)

// ExpiryGrace is how long past expiry a pending prediction is left for the
// user to verify before the sweep resolves it.
const ExpiryGrace = 24 * time.Hour

// Store is the persistence surface the verification engine needs.
type Store interface {
	GetPrediction(ctx context.Context, predictionID string, userID int64) (*models.Prediction, error)
	TransitionStatus(ctx context.Context, predictionID string, userID int64, to models.VerificationStatus) error
	InsertFeedback(ctx context.Context, fb *models.PredictionFeedback) error
	RecordResolved(ctx context.Context, userID int64, category models.Category, accurate bool, accuracy int) error
	RecomputeTemplateSuccessRate(ctx context.Context, templateID int64) error
	NudgeCategoryMultipliers(ctx context.Context, category models.Category, delta, floor, ceil float64) error
	ExpireOverdue(ctx context.Context, olderThan time.Time) ([]models.Prediction, error)
	UnlearnedSamples(ctx context.Context, category models.Category) ([]models.FeedbackSample, error)
	MarkLearned(ctx context.Context, feedbackIDs []int64) error
	GetUserAnalytics(ctx context.Context, userID int64) (*models.UserAnalytics, error)
}

// Engine applies verification transitions and the feedback-driven parameter
// adjustments.
type Engine struct {
	store      Store
	minSamples int
	now        func() time.Time
	logger     zerolog.Logger
}

// NewEngine creates a verification engine. minSamples gates batch learning.
func NewEngine(store Store, minSamples int) *Engine {
	return &Engine{
		store:      store,
		minSamples: minSamples,
		now:        time.Now,
		logger:     log.With().Str("component", "verification_engine").Logger(),
	}
}

// Verify applies user feedback to a pending prediction. The status write is
// conditioned on the row still being pending, so a concurrent duplicate
// submission loses with ErrAlreadyVerified instead of double-counting.
func (e *Engine) Verify(ctx context.Context, predictionID string, userID int64, fb *models.PredictionFeedback) (*models.VerificationResult, error) {
	pred, err := e.store.GetPrediction(ctx, predictionID, userID)
	if err != nil {
		return nil, err
	}
	if pred.Status.Terminal() {
		return nil, models.ErrAlreadyVerified
	}

	status := MapFeedback(fb)
	if err := e.store.TransitionStatus(ctx, predictionID, userID, status); err != nil {
		return nil, err
	}

	fb.PredictionID = predictionID
	if fb.SubmittedAt.IsZero() {
		fb.SubmittedAt = e.now().UTC()
	}
	if err := e.store.InsertFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("recording feedback: %w", err)
	}

	if err := e.store.RecordResolved(ctx, userID, pred.Category, status.Accurate(), fb.AccuracyRating); err != nil {
		return nil, fmt.Errorf("updating analytics: %w", err)
	}
	if pred.TemplateID != 0 {
		if err := e.store.RecomputeTemplateSuccessRate(ctx, pred.TemplateID); err != nil {
			e.logger.Error().Err(err).Int64("template_id", pred.TemplateID).Msg("success rate update failed")
		}
	}

	e.learn(ctx, pred.Category)

	analytics, err := e.store.GetUserAnalytics(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("prediction_id", predictionID).
		Str("status", string(status)).
		Int("rating", fb.AccuracyRating).
		Msg("prediction verified")

	return &models.VerificationResult{
		Status:          status,
		UserSuccessRate: analytics.SuccessRate,
	}, nil
}

// Sweep expires predictions pending more than ExpiryGrace past their expiry,
// applying the small negative template nudge per expired prediction. The
// conditional update makes re-runs no-ops on already-expired rows.
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	cutoff := e.now().Add(-ExpiryGrace)
	expired, err := e.store.ExpireOverdue(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expiry sweep: %w", err)
	}

	for _, pred := range expired {
		// Per-record failures are logged and skipped; the sweep continues.
		if err := e.store.RecordResolved(ctx, pred.UserID, pred.Category, false, 0); err != nil {
			e.logger.Error().Err(err).Str("prediction_id", pred.ID).Msg("analytics update failed")
		}
		if err := e.store.NudgeCategoryMultipliers(ctx, pred.Category, expiredNudge, MultiplierFloor, MultiplierCeil); err != nil {
			e.logger.Error().Err(err).Str("category", string(pred.Category)).Msg("multiplier nudge failed")
		}
		if pred.TemplateID != 0 {
			if err := e.store.RecomputeTemplateSuccessRate(ctx, pred.TemplateID); err != nil {
				e.logger.Error().Err(err).Int64("template_id", pred.TemplateID).Msg("success rate update failed")
			}
		}
	}

	if len(expired) > 0 {
		e.logger.Info().Int("count", len(expired)).Msg("expired overdue predictions")
	}
	return len(expired), nil
}

// learn runs the batched multiplier adjustment for a category if enough
// unconsumed samples accumulated. Best effort: failures are logged, never
// propagated into the verification path.
func (e *Engine) learn(ctx context.Context, category models.Category) {
	samples, err := e.store.UnlearnedSamples(ctx, category)
	if err != nil {
		e.logger.Error().Err(err).Str("category", string(category)).Msg("loading learning samples failed")
		return
	}

	stats, ok := AnalyzeBatch(samples, e.minSamples)
	if !ok {
		return
	}

	if err := e.store.NudgeCategoryMultipliers(ctx, category, stats.Delta, MultiplierFloor, MultiplierCeil); err != nil {
		e.logger.Error().Err(err).Str("category", string(category)).Msg("learning nudge failed")
		return
	}

	ids := make([]int64, len(samples))
	for i, s := range samples {
		ids[i] = s.FeedbackID
	}
	if err := e.store.MarkLearned(ctx, ids); err != nil {
		e.logger.Error().Err(err).Str("category", string(category)).Msg("marking samples learned failed")
		return
	}

	e.logger.Info().
		Str("category", string(category)).
		Int("samples", stats.Samples).
		Float64("avg_accuracy", stats.AvgAccuracy).
		Float64("correlation", stats.Correlation).
		Float64("delta", stats.Delta).
		Msg("adjusted template multipliers")
}
