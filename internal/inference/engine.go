// Package inference turns recurring correction samples into candidate
// extraction rules by running independent strategies and keeping the most
// confident result.
package inference

import (
	"fmt"
	"sort"
	"strings"

	"freightiq/internal/domain"
)

const (
	// MaxSamples caps the correction window fed to the strategies,
	// most recent first.
	MaxSamples = 10
	// maxAlternatives caps the runners-up kept on the winning rule.
	maxAlternatives = 3
	// fallbackConfidence is the fixed confidence of the AI-prompt fallback.
	fallbackConfidence = 0.5
	// fallbackExamples caps the example pairs embedded in the prompt.
	fallbackExamples = 3
)

// Engine runs a fixed ordered list of inference strategies.
type Engine struct {
	strategies []Strategy
}

// NewEngine creates an Engine with the default strategy order:
// structural, transformation, positional.
func NewEngine() *Engine {
	return &Engine{strategies: []Strategy{
		NewStructuralStrategy(),
		NewTransformStrategy(),
		NewPositionalStrategy(),
	}}
}

// InferBestRule returns the highest-confidence rule any strategy produced,
// with up to three runners-up attached as alternatives. It never fails for a
// non-empty sample list: when no strategy yields a candidate it falls back to
// a natural-language extraction instruction. An empty sample list is the sole
// error case.
func (e *Engine) InferBestRule(samples []Sample) (*domain.InferredRule, error) {
	if len(samples) == 0 {
		return nil, domain.ErrNoSamples
	}
	if len(samples) > MaxSamples {
		samples = samples[:MaxSamples]
	}

	var candidates []domain.InferredRule
	for _, s := range e.strategies {
		if rule := s.Infer(samples); rule != nil {
			candidates = append(candidates, *rule)
		}
	}

	if len(candidates) == 0 {
		rule := promptFallback(samples)
		return &rule, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	best := candidates[0]
	rest := candidates[1:]
	if len(rest) > maxAlternatives {
		rest = rest[:maxAlternatives]
	}
	best.Alternatives = rest
	return &best, nil
}

// promptFallback synthesizes an AI_PROMPT rule embedding example pairs, so
// the engine always returns something for a non-empty sample set.
func promptFallback(samples []Sample) domain.InferredRule {
	n := len(samples)
	if n > fallbackExamples {
		n = fallbackExamples
	}

	var b strings.Builder
	b.WriteString("Extract the field value from the document text. ")
	b.WriteString("The automatic extraction was corrected by reviewers as in these examples:\n")
	for _, s := range samples[:n] {
		fmt.Fprintf(&b, "- extracted %q, correct value %q\n", s.OriginalValue, s.CorrectedValue)
	}
	b.WriteString("Return only the corrected value.")

	return domain.InferredRule{
		Type:        domain.ExtractionTypeAIPrompt,
		Pattern:     b.String(),
		Confidence:  fallbackConfidence,
		Explanation: fmt.Sprintf("no structural, transformation, or positional pattern found across %d samples", len(samples)),
	}
}
