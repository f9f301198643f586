package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovia/engine/models"
)

type fakeSource struct {
	templates   []models.Template
	fetchErr    error
	usageErr    error
	incremented []int64
}

func (f *fakeSource) CandidatesByCategory(_ context.Context, _ models.Category, _ int) ([]models.Template, error) {
	return f.templates, f.fetchErr
}

func (f *fakeSource) IncrementUsage(_ context.Context, templateID int64) error {
	f.incremented = append(f.incremented, templateID)
	return f.usageErr
}

func richPotential() *models.Potential {
	return &models.Potential{
		Category:   models.CategoryLove,
		Confidence: 0.85,
		Factors: []models.Factor{
			{Text: "venus in house 7", Body: models.Venus, House: 7, Strength: 0.2},
			{Text: "venus trine sun", Body: models.Venus, Aspect: models.Trine, Strength: 0.8},
		},
	}
}

func TestSelectFallsBackToDefault(t *testing.T) {
	src := &fakeSource{}
	sel := NewSelector(src)

	got, err := sel.Select(context.Background(), richPotential(), 48)
	require.NoError(t, err)

	assert.Zero(t, got.Template.ID)
	assert.Equal(t, defaultPatterns[models.CategoryLove][0], got.Template.Pattern)
	assert.Empty(t, src.incremented, "unstored defaults have no usage counter")
	assert.NotEmpty(t, got.Content)
}

func TestSelectPrefersFillableOverMultiplier(t *testing.T) {
	src := &fakeSource{templates: []models.Template{
		// Higher multiplier but its only placeholder cannot be filled:
		// 1.5 * 0.5 = 0.75.
		{ID: 1, Category: models.CategoryLove, Pattern: "News tied to house {house}.", ConfidenceMultiplier: 1.5},
		// Fully fillable at a neutral multiplier: 1.0 * 1.0 = 1.0.
		{ID: 2, Category: models.CategoryLove, Pattern: "{planet} forms a {aspect}.", ConfidenceMultiplier: 1.0},
	}}
	sel := NewSelector(src)

	pot := richPotential()
	pot.Factors = pot.Factors[1:] // aspect factor only, no house

	got, err := sel.Select(context.Background(), pot, 48)
	require.NoError(t, err)

	assert.Equal(t, int64(2), got.Template.ID)
	assert.Equal(t, []int64{2}, src.incremented)
}

func TestSelectSurvivesUsageError(t *testing.T) {
	src := &fakeSource{
		templates: []models.Template{
			{ID: 7, Category: models.CategoryLove, Pattern: "Change within {timeframe}.", ConfidenceMultiplier: 1.0},
		},
		usageErr: errors.New("db down"),
	}
	sel := NewSelector(src)

	got, err := sel.Select(context.Background(), richPotential(), 24)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Template.ID)
}

func TestSelectPropagatesFetchError(t *testing.T) {
	src := &fakeSource{fetchErr: errors.New("db down")}
	sel := NewSelector(src)

	_, err := sel.Select(context.Background(), richPotential(), 24)
	assert.Error(t, err)
}

func TestRenderSubstitutionAndPeak(t *testing.T) {
	tpl := models.Template{
		Pattern:              "Transiting {planet} forms a {aspect} in house {house} within {timeframe}.",
		ConfidenceMultiplier: 1.0,
	}

	content, specificity := render(tpl, richPotential(), 48)

	assert.Contains(t, content, "Venus")
	assert.Contains(t, content, "trine")
	assert.Contains(t, content, "house 7")
	assert.Contains(t, content, "the next two days")
	assert.Contains(t, content, "peaks between 16 and 32 hours")
	assert.Contains(t, content, "particularly strong")
	assert.NotContains(t, content, "{")
	assert.Equal(t, 1.0, specificity)
}

func TestRenderGenericFallbacksAndLowConfidence(t *testing.T) {
	tpl := models.Template{
		Pattern:              "{planet} brings a {aspect} within {timeframe}.",
		ConfidenceMultiplier: 1.0,
	}
	pot := &models.Potential{
		Category:   models.CategoryLove,
		Confidence: 0.4,
		Factors:    []models.Factor{{Text: "baseline"}},
	}

	content, specificity := render(tpl, pot, 24)

	assert.Contains(t, content, "a key planet")
	assert.Contains(t, content, "a harmonious alignment")
	assert.Contains(t, content, "the next day")
	assert.Contains(t, content, "trust your intuition")
	assert.NotContains(t, content, "peaks between")
	// Only {timeframe} was genuinely filled.
	assert.InDelta(t, 0.5, specificity, 1e-9)
}

func TestSeedTemplatesCoverAllCategories(t *testing.T) {
	seeds := SeedTemplates()
	seen := map[models.Category]int{}
	for _, s := range seeds {
		seen[s.Category]++
		assert.Equal(t, 1.0, s.ConfidenceMultiplier)
		assert.NotEmpty(t, s.Pattern)
	}
	for _, cat := range models.AllCategories {
		assert.GreaterOrEqual(t, seen[cat], 2, "category %s", cat)
	}
}
