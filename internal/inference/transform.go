package inference

import (
	"fmt"
	"strings"

	"freightiq/internal/domain"
)

// Transform agreement threshold and confidence scaling.
const (
	transformAgreementRate = 0.7
	transformScale         = 0.9
)

// separators tried for separator-normalization classification.
var separators = []string{"-", "_", "/", ".", " ", ","}

type transformKind string

const (
	kindRemovePrefix    transformKind = "remove_prefix"
	kindRemoveSuffix    transformKind = "remove_suffix"
	kindRemoveSeparator transformKind = "remove_separator"
	kindExtract         transformKind = "extract"
)

// classified is one sample's transformation type plus its parameter.
type classified struct {
	kind  transformKind
	value string // prefix, suffix, separator, or extract regex
}

// transformStrategy infers a KEYWORD rule describing the original->corrected
// transformation shared by the samples.
type transformStrategy struct{}

// NewTransformStrategy returns the transformation/keyword inference strategy.
func NewTransformStrategy() Strategy {
	return transformStrategy{}
}

func (transformStrategy) Name() string { return "transform" }

func (transformStrategy) Infer(samples []Sample) *domain.InferredRule {
	if len(samples) == 0 {
		return nil
	}

	byKind := make(map[transformKind][]classified)
	for _, s := range samples {
		if c := classify(s.OriginalValue, s.CorrectedValue); c != nil {
			byKind[c.kind] = append(byKind[c.kind], *c)
		}
	}

	var bestKind transformKind
	var best []classified
	for _, kind := range []transformKind{kindRemoveSeparator, kindRemovePrefix, kindRemoveSuffix, kindExtract} {
		if len(byKind[kind]) > len(best) {
			bestKind = kind
			best = byKind[kind]
		}
	}

	rate := float64(len(best)) / float64(len(samples))
	if rate < transformAgreementRate {
		return nil
	}

	step, explanation := buildStep(bestKind, best)
	if step == nil {
		return nil
	}

	return &domain.InferredRule{
		Type:        domain.ExtractionTypeKeyword,
		Pattern:     stepPattern(*step),
		Confidence:  rate * transformScale,
		Explanation: fmt.Sprintf("%s (%d of %d samples agree)", explanation, len(best), len(samples)),
		Transforms:  []domain.TransformStep{*step},
	}
}

// classify determines how corrected was produced from original, or nil when
// no supported transformation explains the pair.
func classify(original, corrected string) *classified {
	if original == corrected || original == "" || corrected == "" {
		return nil
	}

	// Separator normalization: corrected equals original with one separator
	// character removed throughout.
	for _, sep := range separators {
		if strings.Contains(original, sep) &&
			strings.ReplaceAll(original, sep, "") == corrected {
			return &classified{kind: kindRemoveSeparator, value: sep}
		}
	}

	// Prefix removal: original ends with corrected.
	if strings.HasSuffix(original, corrected) {
		return &classified{kind: kindRemovePrefix, value: original[:len(original)-len(corrected)]}
	}

	// Suffix removal: original starts with corrected.
	if strings.HasPrefix(original, corrected) {
		return &classified{kind: kindRemoveSuffix, value: original[len(corrected):]}
	}

	// Substring extraction: corrected appears inside original.
	if strings.Contains(original, corrected) {
		return &classified{kind: kindExtract, value: regexFromSkeleton(skeletonOf(corrected))}
	}

	return nil
}

// buildStep collapses the agreeing classifications into one transform step,
// keeping the most common parameter value.
func buildStep(kind transformKind, agreeing []classified) (*domain.TransformStep, string) {
	value := mostCommonValue(agreeing)
	if value == "" {
		return nil, ""
	}
	switch kind {
	case kindRemoveSeparator:
		return &domain.TransformStep{Action: string(kind), Value: value},
			fmt.Sprintf("remove %q separator", value)
	case kindRemovePrefix:
		return &domain.TransformStep{Action: string(kind), Value: value},
			fmt.Sprintf("remove %q prefix", value)
	case kindRemoveSuffix:
		return &domain.TransformStep{Action: string(kind), Value: value},
			fmt.Sprintf("remove %q suffix", value)
	case kindExtract:
		// The parameter is an unanchored value-shape regex for extraction.
		pattern := strings.TrimSuffix(strings.TrimPrefix(value, "^"), "$")
		return &domain.TransformStep{Action: string(kind), Pattern: pattern},
			fmt.Sprintf("extract the substring matching %s", pattern)
	}
	return nil, ""
}

func mostCommonValue(agreeing []classified) string {
	counts := make(map[string]int)
	for _, c := range agreeing {
		counts[c.value]++
	}
	var best string
	var bestCount int
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value < best) {
			best = value
			bestCount = count
		}
	}
	return best
}

func stepPattern(step domain.TransformStep) string {
	if step.Pattern != "" {
		return fmt.Sprintf(`{"action":%q,"pattern":%q}`, step.Action, step.Pattern)
	}
	return fmt.Sprintf(`{"action":%q,"value":%q}`, step.Action, step.Value)
}
