package inference

import "freightiq/internal/domain"

// Sample is one correction pair fed to inference, most recent first.
type Sample struct {
	OriginalValue  string               `json:"original_value"`
	CorrectedValue string               `json:"corrected_value"`
	Context        *domain.FieldContext `json:"context,omitempty"`
}

// Strategy is a single rule-inference approach. Infer returns nil when the
// strategy has no confident candidate for the given samples; it never errors.
type Strategy interface {
	Name() string
	Infer(samples []Sample) *domain.InferredRule
}
