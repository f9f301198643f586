package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovia/engine/models"
)

type resolvedCall struct {
	userID   int64
	category models.Category
	accurate bool
	accuracy int
}

type nudgeCall struct {
	category models.Category
	delta    float64
}

type fakeStore struct {
	predictions map[string]*models.Prediction
	samples     []models.FeedbackSample
	expired     []models.Prediction
	analytics   models.UserAnalytics

	feedback   []*models.PredictionFeedback
	resolved   []resolvedCall
	nudges     []nudgeCall
	recomputed []int64
	learned    [][]int64

	expireErr error
}

func (f *fakeStore) GetPrediction(_ context.Context, id string, _ int64) (*models.Prediction, error) {
	p, ok := f.predictions[id]
	if !ok {
		return nil, models.ErrPredictionNotFound
	}
	return p, nil
}

func (f *fakeStore) TransitionStatus(_ context.Context, id string, _ int64, to models.VerificationStatus) error {
	p, ok := f.predictions[id]
	if !ok {
		return models.ErrPredictionNotFound
	}
	if p.Status.Terminal() {
		return models.ErrAlreadyVerified
	}
	p.Status = to
	return nil
}

func (f *fakeStore) InsertFeedback(_ context.Context, fb *models.PredictionFeedback) error {
	f.feedback = append(f.feedback, fb)
	return nil
}

func (f *fakeStore) RecordResolved(_ context.Context, userID int64, category models.Category, accurate bool, accuracy int) error {
	f.resolved = append(f.resolved, resolvedCall{userID, category, accurate, accuracy})
	return nil
}

func (f *fakeStore) RecomputeTemplateSuccessRate(_ context.Context, templateID int64) error {
	f.recomputed = append(f.recomputed, templateID)
	return nil
}

func (f *fakeStore) NudgeCategoryMultipliers(_ context.Context, category models.Category, delta, _, _ float64) error {
	f.nudges = append(f.nudges, nudgeCall{category, delta})
	return nil
}

func (f *fakeStore) ExpireOverdue(_ context.Context, _ time.Time) ([]models.Prediction, error) {
	return f.expired, f.expireErr
}

func (f *fakeStore) UnlearnedSamples(_ context.Context, _ models.Category) ([]models.FeedbackSample, error) {
	return f.samples, nil
}

func (f *fakeStore) MarkLearned(_ context.Context, feedbackIDs []int64) error {
	f.learned = append(f.learned, feedbackIDs)
	return nil
}

func (f *fakeStore) GetUserAnalytics(_ context.Context, _ int64) (*models.UserAnalytics, error) {
	a := f.analytics
	return &a, nil
}

func pendingPrediction(id string) *models.Prediction {
	return &models.Prediction{
		ID:         id,
		UserID:     42,
		Category:   models.CategoryLove,
		TemplateID: 3,
		Status:     models.StatusPending,
	}
}

func TestVerifyHappyPath(t *testing.T) {
	store := &fakeStore{
		predictions: map[string]*models.Prediction{"p1": pendingPrediction("p1")},
		analytics:   models.UserAnalytics{SuccessRate: 0.75},
	}
	e := NewEngine(store, 10)

	res, err := e.Verify(context.Background(), "p1", 42, &models.PredictionFeedback{AccuracyRating: 5})
	require.NoError(t, err)

	assert.Equal(t, models.StatusVerified, res.Status)
	assert.Equal(t, 0.75, res.UserSuccessRate)
	assert.Equal(t, models.StatusVerified, store.predictions["p1"].Status)

	require.Len(t, store.feedback, 1)
	assert.Equal(t, "p1", store.feedback[0].PredictionID)
	assert.False(t, store.feedback[0].SubmittedAt.IsZero())

	require.Len(t, store.resolved, 1)
	assert.Equal(t, resolvedCall{42, models.CategoryLove, true, 5}, store.resolved[0])
	assert.Equal(t, []int64{3}, store.recomputed)
	assert.Empty(t, store.nudges, "too few samples to learn")
}

func TestVerifyDeniedOutcome(t *testing.T) {
	store := &fakeStore{
		predictions: map[string]*models.Prediction{"p1": pendingPrediction("p1")},
	}
	e := NewEngine(store, 10)

	res, err := e.Verify(context.Background(), "p1", 42, &models.PredictionFeedback{AccuracyRating: 1})
	require.NoError(t, err)

	assert.Equal(t, models.StatusUserDenied, res.Status)
	require.Len(t, store.resolved, 1)
	assert.False(t, store.resolved[0].accurate)
}

func TestVerifyAlreadyTerminal(t *testing.T) {
	pred := pendingPrediction("p1")
	pred.Status = models.StatusVerified
	store := &fakeStore{predictions: map[string]*models.Prediction{"p1": pred}}
	e := NewEngine(store, 10)

	_, err := e.Verify(context.Background(), "p1", 42, &models.PredictionFeedback{AccuracyRating: 5})
	assert.ErrorIs(t, err, models.ErrAlreadyVerified)
	assert.Empty(t, store.feedback)
	assert.Empty(t, store.resolved)
}

func TestVerifyUnknownPrediction(t *testing.T) {
	store := &fakeStore{predictions: map[string]*models.Prediction{}}
	e := NewEngine(store, 10)

	_, err := e.Verify(context.Background(), "nope", 42, &models.PredictionFeedback{AccuracyRating: 5})
	assert.ErrorIs(t, err, models.ErrPredictionNotFound)
}

func TestVerifyTriggersLearning(t *testing.T) {
	samples := make([]models.FeedbackSample, 10)
	ids := make([]int64, 10)
	for i := range samples {
		samples[i] = models.FeedbackSample{FeedbackID: int64(i + 1), Confidence: 0.5 + 0.01*float64(i), Accuracy: 4}
		ids[i] = int64(i + 1)
	}
	store := &fakeStore{
		predictions: map[string]*models.Prediction{"p1": pendingPrediction("p1")},
		samples:     samples,
	}
	e := NewEngine(store, 10)

	_, err := e.Verify(context.Background(), "p1", 42, &models.PredictionFeedback{AccuracyRating: 5})
	require.NoError(t, err)

	require.Len(t, store.nudges, 1)
	assert.Equal(t, models.CategoryLove, store.nudges[0].category)
	assert.InDelta(t, learningNudge, store.nudges[0].delta, 1e-9)
	require.Len(t, store.learned, 1)
	assert.Equal(t, ids, store.learned[0])
}

func TestSweep(t *testing.T) {
	store := &fakeStore{
		expired: []models.Prediction{
			{ID: "a", UserID: 1, Category: models.CategoryLove, TemplateID: 3, Status: models.StatusExpired},
			{ID: "b", UserID: 2, Category: models.CategoryCareer, Status: models.StatusExpired},
		},
	}
	e := NewEngine(store, 10)

	count, err := e.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, store.resolved, 2)
	assert.Equal(t, resolvedCall{1, models.CategoryLove, false, 0}, store.resolved[0])
	assert.Equal(t, resolvedCall{2, models.CategoryCareer, false, 0}, store.resolved[1])

	require.Len(t, store.nudges, 2)
	assert.InDelta(t, expiredNudge, store.nudges[0].delta, 1e-9)

	// Only the prediction with a stored template gets a recompute.
	assert.Equal(t, []int64{3}, store.recomputed)
}

func TestSweepNothingOverdue(t *testing.T) {
	store := &fakeStore{}
	e := NewEngine(store, 10)

	count, err := e.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, store.resolved)
}

func TestSweepPropagatesQueryError(t *testing.T) {
	store := &fakeStore{expireErr: errors.New("db down")}
	e := NewEngine(store, 10)

	_, err := e.Sweep(context.Background())
	assert.Error(t, err)
}
