// Package engine wires the calculators, caches, analyzer, template selector
// and verification engine into the caller-facing operations consumed by the
// transport layer.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/internal/astro"
	"github.com/astrovia/engine/internal/cache"
	"github.com/astrovia/engine/internal/potential"
	"github.com/astrovia/engine/internal/templates"
	"github.com/astrovia/engine/internal/verification"
	"github.com/astrovia/engine/models"
)

// Store is the persistence surface the service needs beyond what the
// verification engine and template selector already consume.
type Store interface {
	verification.Store
	templates.Source

	GetBirthData(ctx context.Context, userID int64) (*models.BirthData, error)
	UpsertBirthData(ctx context.Context, data *models.BirthData) (int, error)
	CountPending(ctx context.Context, userID int64) (int, error)
	InsertPrediction(ctx context.Context, p *models.Prediction, alerts []models.Alert) error
	ListUserPredictions(ctx context.Context, userID int64) ([]models.Prediction, error)
	RecordGenerated(ctx context.Context, userID int64, category models.Category, confidence float64) error
	LogGeneration(ctx context.Context, userID int64, category models.Category, confidence float64, duration time.Duration) error
	IsPremium(ctx context.Context, userID int64) (bool, error)
}

// Options tunes the service.
type Options struct {
	MaxPendingPerUser     int
	DefaultTimeframeHours int
	MinSamplesForLearning int
}

// GenerateOptions carries per-request generation knobs.
type GenerateOptions struct {
	TimeframeHours int
}

// Service implements the caller-facing prediction operations.
type Service struct {
	astroCfg astro.Config
	opts     Options

	calc     *astro.Calculator
	analyzer *potential.Analyzer
	selector *templates.Selector
	verifier *verification.Engine
	store    Store

	charts   *cache.ChartCache
	transits *cache.TransitCache

	now    func() time.Time
	logger zerolog.Logger
}

// New assembles a service from its collaborators.
func New(astroCfg astro.Config, eph models.Ephemeris, store Store, opts Options) *Service {
	if opts.MaxPendingPerUser == 0 {
		opts.MaxPendingPerUser = 3
	}
	if opts.DefaultTimeframeHours == 0 {
		opts.DefaultTimeframeHours = 48
	}
	if opts.MinSamplesForLearning == 0 {
		opts.MinSamplesForLearning = 10
	}

	return &Service{
		astroCfg: astroCfg,
		opts:     opts,
		calc:     astro.NewCalculator(astroCfg, eph),
		analyzer: potential.New(astroCfg),
		selector: templates.NewSelector(store),
		verifier: verification.NewEngine(store, opts.MinSamplesForLearning),
		store:    store,
		charts:   cache.NewChartCache(),
		transits: cache.NewTransitCache(),
		now:      time.Now,
		logger:   log.With().Str("component", "prediction_service").Logger(),
	}
}

// SetBirthData validates and stores a user's birth data. An unknown birth
// time defaults to local noon; any change bumps the revision and drops the
// user's cached charts.
func (s *Service) SetBirthData(ctx context.Context, data models.BirthData) (*models.BirthData, error) {
	if !data.TimeKnown {
		d := data.BirthUTC.UTC()
		data.BirthUTC = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	}
	if data.HouseSystem == "" {
		data.HouseSystem = models.Placidus
	}
	if !data.Complete() {
		return nil, models.ErrInsufficientBirthData
	}

	if _, err := s.store.UpsertBirthData(ctx, &data); err != nil {
		return nil, fmt.Errorf("storing birth data: %w", err)
	}
	s.charts.Invalidate(data.UserID)
	return &data, nil
}

// GeneratePrediction runs the full pipeline for one user and category.
func (s *Service) GeneratePrediction(ctx context.Context, userID int64, category models.Category, opts GenerateOptions) (*models.GenerationResult, error) {
	started := s.now()

	profile, err := s.astroCfg.Profile(category)
	if err != nil {
		return nil, err
	}
	if profile.Premium {
		premium, err := s.store.IsPremium(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("entitlement check: %w", err)
		}
		if !premium {
			return nil, fmt.Errorf("%w: category %s", models.ErrPremiumRequired, category)
		}
	}

	birthData, err := s.store.GetBirthData(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.store.CountPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending >= s.opts.MaxPendingPerUser {
		return nil, fmt.Errorf("%w: %d pending", models.ErrPredictionLimit, pending)
	}

	chart, err := s.chartFor(ctx, *birthData)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.transitsFor(ctx)
	if err != nil {
		return nil, err
	}

	transitAspects := astro.DetectTransitAspects(snapshot.Positions, chart.Positions, s.astroCfg)

	pot, err := s.analyzer.Analyze(category, snapshot, chart, transitAspects)
	if err != nil {
		return nil, err
	}

	timeframe := opts.TimeframeHours
	if timeframe <= 0 {
		timeframe = s.opts.DefaultTimeframeHours
	}

	rendered, err := s.selector.Select(ctx, pot, timeframe)
	if err != nil {
		return nil, err
	}

	// The template's learned multiplier scales the analyzed confidence,
	// re-clamped into the configured band.
	confidence := clamp(pot.Confidence*rendered.Template.ConfidenceMultiplier,
		s.astroCfg.MinConfidence, s.astroCfg.MaxConfidence)

	createdAt := s.now().UTC()
	pred := &models.Prediction{
		ID:               uuid.NewString(),
		UserID:           userID,
		Category:         category,
		ConfidenceScore:  confidence,
		Content:          rendered.Content,
		Basis:            factorTexts(pot.Factors),
		SpecificityScore: rendered.Specificity,
		TimeframeHours:   timeframe,
		TemplateID:       rendered.Template.ID,
		CreatedAt:        createdAt,
		ExpiresAt:        createdAt.Add(time.Duration(timeframe) * time.Hour),
		Status:           models.StatusPending,
	}
	alerts := buildAlertSchedule(pred)

	if err := s.store.InsertPrediction(ctx, pred, alerts); err != nil {
		return nil, fmt.Errorf("storing prediction: %w", err)
	}
	if err := s.store.RecordGenerated(ctx, userID, category, confidence); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("analytics update failed")
	}
	if err := s.store.LogGeneration(ctx, userID, category, confidence, s.now().Sub(started)); err != nil {
		s.logger.Error().Err(err).Msg("generation log write failed")
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("category", string(category)).
		Float64("confidence", confidence).
		Int("timeframe_hours", timeframe).
		Msg("prediction generated")

	return &models.GenerationResult{
		PredictionID:   pred.ID,
		Content:        pred.Content,
		Confidence:     confidence,
		Category:       category,
		TimeframeHours: timeframe,
		Reasoning:      pred.Basis,
		AlertSchedule:  alerts,
	}, nil
}

// VerifyPrediction applies user feedback; see verification.Engine.Verify.
func (s *Service) VerifyPrediction(ctx context.Context, predictionID string, userID int64, fb *models.PredictionFeedback) (*models.VerificationResult, error) {
	return s.verifier.Verify(ctx, predictionID, userID, fb)
}

// GetUserPredictions lists a user's predictions, newest first.
func (s *Service) GetUserPredictions(ctx context.Context, userID int64) ([]models.Prediction, error) {
	return s.store.ListUserPredictions(ctx, userID)
}

// GetUserAnalytics returns the user's rolling verification summary.
func (s *Service) GetUserAnalytics(ctx context.Context, userID int64) (*models.UserAnalytics, error) {
	return s.store.GetUserAnalytics(ctx, userID)
}

// RunExpirySweep resolves overdue pending predictions; safe to re-run.
func (s *Service) RunExpirySweep(ctx context.Context) (int, error) {
	return s.verifier.Sweep(ctx)
}

// chartFor is the read-through over the chart cache. Computation is pure
// given birth data, so concurrent misses overwriting each other is harmless.
func (s *Service) chartFor(ctx context.Context, data models.BirthData) (*models.BirthChart, error) {
	if chart, ok := s.charts.Get(data.UserID, data.Revision); ok {
		return chart, nil
	}
	chart, err := s.calc.BirthChart(ctx, data)
	if err != nil {
		return nil, err
	}
	s.charts.Put(chart)
	return chart, nil
}

// transitsFor is the read-through over the shared transit cache, keyed by
// today's UTC date and computed at noon UTC.
func (s *Service) transitsFor(ctx context.Context) (*models.TransitSnapshot, error) {
	today := s.now().UTC()
	key := today.Format("2006-01-02")
	if snap, ok := s.transits.Get(key); ok {
		return snap, nil
	}

	noon := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, 0, time.UTC)
	snap, err := s.calc.Transits(ctx, noon)
	if err != nil {
		return nil, err
	}
	s.transits.Put(snap)
	return snap, nil
}

// buildAlertSchedule places reminders at fixed offsets before expiry,
// skipping any slot that would land at or before creation, plus one
// verification reminder a day after expiry.
func buildAlertSchedule(p *models.Prediction) []models.Alert {
	offsets := []struct {
		kind   string
		before time.Duration
	}{
		{models.AlertUpcoming, 48 * time.Hour},
		{models.AlertImminent, 24 * time.Hour},
		{models.AlertFinal, 2 * time.Hour},
	}

	var alerts []models.Alert
	for _, o := range offsets {
		at := p.ExpiresAt.Add(-o.before)
		if !at.After(p.CreatedAt) {
			continue
		}
		alerts = append(alerts, models.Alert{
			PredictionID: p.ID,
			Kind:         o.kind,
			ScheduledAt:  at,
		})
	}
	alerts = append(alerts, models.Alert{
		PredictionID: p.ID,
		Kind:         models.AlertVerificationReminder,
		ScheduledAt:  p.ExpiresAt.Add(24 * time.Hour),
	})
	return alerts
}

func factorTexts(factors []models.Factor) []string {
	texts := make([]string, len(factors))
	for i, f := range factors {
		texts[i] = f.Text
	}
	return texts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
