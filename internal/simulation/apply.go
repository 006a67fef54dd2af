package simulation

import (
	"fmt"
	"regexp"
	"strings"

	"freightiq/internal/domain"
)

// applier executes an inferred rule against a raw extracted value. REGEX and
// KEYWORD rules are mechanically applicable; POSITION and AI_PROMPT rules are
// not (they need the source document), so Apply reports ok=false for them.
type applier struct {
	rule   *domain.InferredRule
	re     *regexp.Regexp
	steps  []compiledStep
	canRun bool
}

type compiledStep struct {
	step domain.TransformStep
	re   *regexp.Regexp
}

func newApplier(rule *domain.InferredRule) (*applier, error) {
	a := &applier{rule: rule}
	switch rule.Type {
	case domain.ExtractionTypeRegex:
		re, err := regexp.Compile(unanchor(rule.Pattern))
		if err != nil {
			return nil, fmt.Errorf("compiling rule pattern: %w", err)
		}
		a.re = re
		a.canRun = true
	case domain.ExtractionTypeKeyword:
		for _, step := range rule.Transforms {
			cs := compiledStep{step: step}
			if step.Pattern != "" {
				re, err := regexp.Compile(step.Pattern)
				if err != nil {
					return nil, fmt.Errorf("compiling transform pattern: %w", err)
				}
				cs.re = re
			}
			a.steps = append(a.steps, cs)
		}
		a.canRun = len(a.steps) > 0
	default:
		// POSITION and AI_PROMPT cannot be replayed against stored values.
		a.canRun = false
	}
	return a, nil
}

// Apply runs the rule against a pre-correction value. ok is false when the
// rule type cannot be replayed against stored values.
func (a *applier) Apply(value string) (output string, ok bool) {
	if !a.canRun {
		return "", false
	}
	switch a.rule.Type {
	case domain.ExtractionTypeRegex:
		return a.re.FindString(value), true
	case domain.ExtractionTypeKeyword:
		out := value
		for _, cs := range a.steps {
			out = applyStep(out, cs)
		}
		return out, true
	}
	return "", false
}

func applyStep(value string, cs compiledStep) string {
	switch cs.step.Action {
	case "remove_prefix":
		return strings.TrimPrefix(value, cs.step.Value)
	case "remove_suffix":
		return strings.TrimSuffix(value, cs.step.Value)
	case "remove_separator":
		return strings.ReplaceAll(value, cs.step.Value, "")
	case "extract":
		if cs.re != nil {
			return cs.re.FindString(value)
		}
	}
	return value
}

// unanchor turns a whole-value shape pattern into a substring search pattern,
// since historical values may carry surrounding noise the rule would not see
// when extracting from the document itself.
func unanchor(pattern string) string {
	pattern = strings.TrimPrefix(pattern, "^")
	return strings.TrimSuffix(pattern, "$")
}
