// Package simulation replays an inferred rule against historical corrections
// to quantify its expected impact before any reviewer sees the suggestion.
// Simulation is read-only and deterministic: identical inputs always produce
// identical ExpectedImpact values.
package simulation

import (
	"fmt"

	"freightiq/internal/domain"
	"freightiq/internal/normalize"
)

// WindowDays is the default historical window replayed per simulation.
const WindowDays = 30

const (
	// noRuleBaseline approximates current accuracy when no production rule
	// exists for the (forwarder, field) pair.
	noRuleBaseline = 80.0
	// degradedRiskRatio is the degraded/tested ratio above which a
	// false-positive risk is emitted.
	degradedRiskRatio = 0.10
	// missRiskRatio is the no-output/tested ratio above which a
	// false-negative risk is emitted.
	missRiskRatio = 0.10
	// lowConfidenceThreshold flags rules below it with a coverage-gap risk.
	lowConfidenceThreshold = 0.7
)

// Case is one historical correction replayed through the rule.
type Case struct {
	OriginalValue  string
	CorrectedValue string
}

// Input bundles everything a simulation run consumes.
type Input struct {
	FieldName string
	// Cases are historical corrections on the target field, the original
	// being the pre-correction extracted value.
	Cases []Case
	// AffectedDocuments counts documents in the window carrying the field.
	AffectedDocuments int
	// CurrentAccuracy is the observed accuracy of the existing rule, when an
	// accuracy sample exists.
	CurrentAccuracy *float64
	// HasCurrentRule reports whether a production rule exists for the pair.
	HasCurrentRule bool
}

// Simulate replays the rule over the input cases and derives the expected
// impact. An individual case the rule cannot be built for is never reached:
// an uncompilable rule fails the whole run instead, since nothing meaningful
// can be measured from it.
func Simulate(rule *domain.InferredRule, in Input) (*domain.ExpectedImpact, error) {
	if rule == nil {
		return nil, fmt.Errorf("simulate: nil rule")
	}
	a, err := newApplier(rule)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	var summary domain.SimulationSummary
	misses := 0
	for _, c := range in.Cases {
		output, ok := a.Apply(c.OriginalValue)
		if !ok {
			continue
		}
		summary.Tested++

		want := normalize.Value(c.CorrectedValue, in.FieldName)
		got := normalize.Value(output, in.FieldName)
		current := normalize.Value(c.OriginalValue, in.FieldName)

		switch {
		case got == want:
			summary.Matched++
			if got != current {
				summary.Improved++
			}
		case got == current:
			// Rule reproduces today's behavior: neither better nor worse.
		default:
			summary.Degraded++
			if output == "" {
				misses++
			}
		}
	}

	predicted := rule.Confidence * 100
	if summary.Tested > 0 {
		predicted = float64(summary.Matched) / float64(summary.Tested) * 100
	}

	current := noRuleBaseline
	if in.HasCurrentRule && in.CurrentAccuracy != nil {
		current = *in.CurrentAccuracy
	}
	improvement := predicted - current
	if improvement < 0 {
		improvement = 0
	}

	impact := &domain.ExpectedImpact{
		AffectedDocuments:    in.AffectedDocuments,
		EstimatedImprovement: improvement,
		CurrentAccuracy:      in.CurrentAccuracy,
		PredictedAccuracy:    predicted,
		PotentialRisks:       deriveRisks(rule, summary, misses),
		SimulationSummary:    summary,
	}
	return impact, nil
}

// deriveRisks enumerates risk items in a fixed order so repeated runs produce
// byte-identical output.
func deriveRisks(rule *domain.InferredRule, s domain.SimulationSummary, misses int) []domain.RiskItem {
	risks := []domain.RiskItem{}

	if s.Tested > 0 && float64(s.Degraded)/float64(s.Tested) > degradedRiskRatio {
		risks = append(risks, domain.RiskItem{
			Type:     domain.RiskFalsePositive,
			Severity: domain.SeverityHigh,
			Description: fmt.Sprintf("rule output diverged from the human correction in %d of %d replayed cases",
				s.Degraded, s.Tested),
			AffectedCount: s.Degraded,
		})
	}
	if s.Tested > 0 && float64(misses)/float64(s.Tested) > missRiskRatio {
		risks = append(risks, domain.RiskItem{
			Type:     domain.RiskFalseNegative,
			Severity: domain.SeverityMedium,
			Description: fmt.Sprintf("rule produced no value for %d of %d replayed cases",
				misses, s.Tested),
			AffectedCount: misses,
		})
	}
	if rule.Confidence < lowConfidenceThreshold {
		risks = append(risks, domain.RiskItem{
			Type:        domain.RiskCoverageGap,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("inference confidence %.2f is below %.2f; the pattern may not cover all value variants", rule.Confidence, lowConfidenceThreshold),
		})
	}
	if rule.Type == domain.ExtractionTypeAIPrompt {
		risks = append(risks, domain.RiskItem{
			Type:        domain.RiskFormatChange,
			Severity:    domain.SeverityLow,
			Description: "prompt-based extraction may format values differently from the current rule",
		})
	}
	return risks
}
