// Package templates picks and renders phrasing templates for predictions,
// biased toward historically successful templates and spread across
// less-used ones.
package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/models"
)

// candidateLimit bounds how many templates are considered per selection.
const candidateLimit = 10

// strongAspectThreshold gates the peak-timing sentence.
const strongAspectThreshold = 0.7

// Source provides template candidates and records usage.
type Source interface {
	// CandidatesByCategory returns up to limit templates ordered by success
	// rate descending, then usage count ascending.
	CandidatesByCategory(ctx context.Context, category models.Category, limit int) ([]models.Template, error)
	// IncrementUsage bumps the usage counter of the picked template.
	IncrementUsage(ctx context.Context, templateID int64) error
}

// Rendered is the selector output.
type Rendered struct {
	Template    models.Template
	Content     string
	Specificity float64
}

// Selector chooses and renders the best-fitting template.
type Selector struct {
	src    Source
	logger zerolog.Logger
}

// NewSelector creates a selector over a template source.
func NewSelector(src Source) *Selector {
	return &Selector{
		src:    src,
		logger: log.With().Str("component", "template_selector").Logger(),
	}
}

// Select scores the candidate templates against the analyzed potential, picks
// the best, increments its usage and renders the prediction text. With no
// stored candidates the hardcoded category default is used.
func (s *Selector) Select(ctx context.Context, pot *models.Potential, timeframeHours int) (*Rendered, error) {
	candidates, err := s.src.CandidatesByCategory(ctx, pot.Category, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching templates: %w", err)
	}

	var picked models.Template
	if len(candidates) == 0 {
		picked = DefaultTemplate(pot.Category)
		s.logger.Warn().Str("category", string(pot.Category)).Msg("no stored templates, using default")
	} else {
		picked = candidates[0]
		bestScore := s.score(candidates[0], pot)
		for _, t := range candidates[1:] {
			if sc := s.score(t, pot); sc > bestScore {
				bestScore = sc
				picked = t
			}
		}
		if err := s.src.IncrementUsage(ctx, picked.ID); err != nil {
			// Usage counting is best effort; the selection stands.
			s.logger.Error().Err(err).Int64("template_id", picked.ID).Msg("usage increment failed")
		}
	}

	content, specificity := render(picked, pot, timeframeHours)
	return &Rendered{Template: picked, Content: content, Specificity: specificity}, nil
}

// score weights a candidate by its learned multiplier and by how well its
// placeholders can be filled from the current factors.
func (s *Selector) score(t models.Template, pot *models.Potential) float64 {
	vars := extractVars(pot)

	placeholders := 0
	fillable := 0
	for _, ph := range []string{"{planet}", "{aspect}", "{house}"} {
		if !strings.Contains(t.Pattern, ph) {
			continue
		}
		placeholders++
		if vars[ph] != "" {
			fillable++
		}
	}

	fit := 1.0
	if placeholders > 0 {
		fit = float64(fillable) / float64(placeholders)
	}
	return t.ConfidenceMultiplier * (0.5 + 0.5*fit)
}

// extractVars pulls the named astrological variables from the factor list.
func extractVars(pot *models.Potential) map[string]string {
	vars := map[string]string{"{planet}": "", "{aspect}": "", "{house}": ""}
	for _, f := range pot.Factors {
		if f.Body != "" && vars["{planet}"] == "" {
			vars["{planet}"] = capitalize(strings.ReplaceAll(string(f.Body), "_", " "))
		}
		if f.Aspect != "" && vars["{aspect}"] == "" {
			vars["{aspect}"] = string(f.Aspect)
		}
		if f.House != 0 && vars["{house}"] == "" {
			vars["{house}"] = fmt.Sprintf("%d", f.House)
		}
	}
	return vars
}

// render substitutes placeholders and appends the peak-timing and
// confidence-qualifier sentences.
func render(t models.Template, pot *models.Potential, timeframeHours int) (string, float64) {
	vars := extractVars(pot)
	vars["{timeframe}"] = describeTimeframe(timeframeHours)

	content := t.Pattern
	filled := 0
	for ph, value := range vars {
		if !strings.Contains(content, ph) {
			continue
		}
		if value == "" {
			value = genericValue(ph)
		} else {
			filled++
		}
		content = strings.ReplaceAll(content, ph, value)
	}

	specificity := 0.3 + 0.2*float64(filled)

	// Strong aspects justify naming a peak window inside the timeframe.
	if strongest(pot) > strongAspectThreshold {
		from := timeframeHours / 3
		to := timeframeHours * 2 / 3
		content += fmt.Sprintf(" The influence peaks between %d and %d hours from now.", from, to)
		specificity += 0.1
	}

	switch {
	case pot.Confidence > 0.8:
		content += " The indicators are particularly strong right now."
	case pot.Confidence < 0.5:
		content += " Treat this as a gentle tendency and trust your intuition."
	}

	if specificity > 1 {
		specificity = 1
	}
	return content, specificity
}

func strongest(pot *models.Potential) float64 {
	best := 0.0
	for _, f := range pot.Factors {
		if f.Aspect != "" && f.Strength > best {
			best = f.Strength
		}
	}
	return best
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func genericValue(placeholder string) string {
	switch placeholder {
	case "{planet}":
		return "a key planet"
	case "{aspect}":
		return "a harmonious alignment"
	case "{house}":
		return "an important"
	default:
		return ""
	}
}

func describeTimeframe(hours int) string {
	switch {
	case hours <= 24:
		return "the next day"
	case hours <= 48:
		return "the next two days"
	case hours <= 96:
		return fmt.Sprintf("the next %d days", (hours+23)/24)
	default:
		return fmt.Sprintf("the coming %d days", (hours+23)/24)
	}
}
