package templates

import "github.com/astrovia/engine/models"

// defaultPatterns are the hardcoded fallbacks used when a category has no
// stored templates, and the seed rows for a fresh database.
var defaultPatterns = map[models.Category][]string{
	models.CategoryLove: {
		"A meaningful romantic connection is likely within {timeframe}, with {planet} forming a {aspect} that favors openness.",
		"Matters of the heart intensify over {timeframe}; pay attention to house {house} themes of partnership.",
	},
	models.CategoryCareer: {
		"A professional opportunity surfaces within {timeframe}; {planet} supports decisive action.",
		"Recognition for past work arrives during {timeframe}, especially where {planet} touches your ambitions.",
	},
	models.CategoryFinance: {
		"A financial decision point arrives within {timeframe}; the {aspect} from {planet} rewards caution over speed.",
		"Money matters clarify over {timeframe}; review commitments tied to house {house}.",
	},
	models.CategoryHealth: {
		"Your energy shifts noticeably within {timeframe}; {planet} favors rest and steady routines.",
		"Pay attention to what your body asks for during {timeframe}.",
	},
	models.CategorySocial: {
		"An unexpected conversation within {timeframe} opens a door; {planet} highlights connection.",
		"Your social circle brings news during {timeframe}, likely through house {house} channels.",
	},
	models.CategoryTravel: {
		"Movement or travel plans crystallize within {timeframe}; {planet} smooths the path.",
		"A change of scenery during {timeframe} brings clarity you cannot find at home.",
	},
}

// DefaultTemplate returns the first hardcoded pattern for a category with a
// neutral multiplier. ID zero marks it as unstored.
func DefaultTemplate(category models.Category) models.Template {
	patterns := defaultPatterns[category]
	pattern := "Something noteworthy develops within {timeframe}."
	if len(patterns) > 0 {
		pattern = patterns[0]
	}
	return models.Template{
		Category:             category,
		Pattern:              pattern,
		ConfidenceMultiplier: 1.0,
		SuccessRate:          0.5,
	}
}

// SeedTemplates returns every default pattern as a template row for
// first-run database seeding.
func SeedTemplates() []models.Template {
	var seeds []models.Template
	for _, category := range models.AllCategories {
		for _, pattern := range defaultPatterns[category] {
			seeds = append(seeds, models.Template{
				Category:             category,
				Pattern:              pattern,
				ConfidenceMultiplier: 1.0,
				SuccessRate:          0.5,
			})
		}
	}
	return seeds
}
