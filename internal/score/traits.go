package score

import (
	"strings"

	"energysink-engine/internal/domain"
)

// DefaultRiskTerms seed the position denylist; config may extend it.
var DefaultRiskTerms = []string{"data entry", "cruise"}

func (e *Engine) riskTraits(posKey string) []domain.Trait {
	terms := e.RiskTerms
	if terms == nil {
		terms = DefaultRiskTerms
	}
	for _, term := range terms {
		if term != "" && strings.Contains(posKey, term) {
			return []domain.Trait{
				{Label: "High Fraud Probability (Historic Trend)", Type: domain.TraitRisk},
				{Label: "Effort Sink Pattern", Type: domain.TraitRisk},
			}
		}
	}
	return nil
}

// framingTrait is the threshold annotation applied to whichever branch
// produced a score.
func framingTrait(score int) domain.Trait {
	switch {
	case score > ThresholdHigh:
		return domain.Trait{Label: "High Energy Sink", Type: domain.TraitRisk}
	case score > ThresholdCaution:
		return domain.Trait{Label: "Inefficient Feedback Loop", Type: domain.TraitInfo}
	default:
		return domain.Trait{Label: "Healthy Response Signal", Type: domain.TraitSuccess}
	}
}

// historicTraits composes a historic record's annotations: denylist hits
// first, the pattern-match marker when there are none, then the score
// framing.
func historicTraits(risk []domain.Trait, score int) []domain.Trait {
	traits := risk
	if len(traits) == 0 {
		traits = []domain.Trait{{Label: "Historic Pattern Match", Type: domain.TraitInfo}}
	}
	return append(traits, framingTrait(score))
}
