package simulation_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightiq/internal/domain"
	"freightiq/internal/simulation"
)

func keywordSeparatorRule(confidence float64) *domain.InferredRule {
	return &domain.InferredRule{
		Type:       domain.ExtractionTypeKeyword,
		Confidence: confidence,
		Transforms: []domain.TransformStep{
			{Action: "remove_separator", Value: "-"},
		},
	}
}

func TestSimulateNilRule(t *testing.T) {
	impact, err := simulation.Simulate(nil, simulation.Input{})
	assert.Error(t, err)
	assert.Nil(t, impact)
}

func TestSimulateUncompilablePattern(t *testing.T) {
	rule := &domain.InferredRule{
		Type:       domain.ExtractionTypeRegex,
		Pattern:    `^[$`,
		Confidence: 0.9,
	}

	impact, err := simulation.Simulate(rule, simulation.Input{FieldName: "invoice_number"})
	assert.Error(t, err)
	assert.Nil(t, impact)
}

func TestSimulateAllCasesMatched(t *testing.T) {
	rule := keywordSeparatorRule(0.9)
	in := simulation.Input{
		FieldName: "invoice_number",
		Cases: []simulation.Case{
			{OriginalValue: "INV-100001", CorrectedValue: "INV100001"},
			{OriginalValue: "INV-100002", CorrectedValue: "INV100002"},
			{OriginalValue: "INV-100003", CorrectedValue: "INV100003"},
		},
		AffectedDocuments: 42,
	}

	impact, err := simulation.Simulate(rule, in)
	require.NoError(t, err)

	assert.Equal(t, 3, impact.SimulationSummary.Tested)
	assert.Equal(t, 3, impact.SimulationSummary.Matched)
	assert.Equal(t, 3, impact.SimulationSummary.Improved)
	assert.Equal(t, 0, impact.SimulationSummary.Degraded)
	assert.InDelta(t, 100.0, impact.PredictedAccuracy, 1e-9)
	// No production rule exists, so improvement is measured against the
	// no-rule baseline of 80.
	assert.InDelta(t, 20.0, impact.EstimatedImprovement, 1e-9)
	assert.Nil(t, impact.CurrentAccuracy)
	assert.Equal(t, 42, impact.AffectedDocuments)
	assert.Empty(t, impact.PotentialRisks)
}

func TestSimulateNeutralWhenRuleReproducesCurrentValue(t *testing.T) {
	rule := &domain.InferredRule{
		Type:       domain.ExtractionTypeRegex,
		Pattern:    `^[A-Z0-9-]{6,}$`,
		Confidence: 0.8,
	}
	in := simulation.Input{
		FieldName: "invoice_number",
		Cases: []simulation.Case{
			// The rule re-extracts exactly today's value, so the case is
			// neither an improvement nor a regression.
			{OriginalValue: "ABC-123456", CorrectedValue: "XYZ999999"},
		},
	}

	impact, err := simulation.Simulate(rule, in)
	require.NoError(t, err)

	assert.Equal(t, 1, impact.SimulationSummary.Tested)
	assert.Equal(t, 0, impact.SimulationSummary.Matched)
	assert.Equal(t, 0, impact.SimulationSummary.Improved)
	assert.Equal(t, 0, impact.SimulationSummary.Degraded)
	assert.InDelta(t, 0.0, impact.PredictedAccuracy, 1e-9)
	assert.InDelta(t, 0.0, impact.EstimatedImprovement, 1e-9)
	assert.Empty(t, impact.PotentialRisks)
}

func TestSimulateDegradedCasesProduceRisks(t *testing.T) {
	rule := &domain.InferredRule{
		Type:       domain.ExtractionTypeRegex,
		Pattern:    `^\d{4}$`,
		Confidence: 0.6,
	}
	in := simulation.Input{
		FieldName: "invoice_number",
		Cases: []simulation.Case{
			// Extracts "1234", which matches neither the correction nor the
			// current value.
			{OriginalValue: "ab 1234 xx", CorrectedValue: "9999"},
			// Extracts nothing at all.
			{OriginalValue: "zzzz", CorrectedValue: "1234"},
		},
	}

	impact, err := simulation.Simulate(rule, in)
	require.NoError(t, err)

	assert.Equal(t, 2, impact.SimulationSummary.Tested)
	assert.Equal(t, 2, impact.SimulationSummary.Degraded)
	assert.InDelta(t, 0.0, impact.PredictedAccuracy, 1e-9)

	require.Len(t, impact.PotentialRisks, 3)
	assert.Equal(t, domain.RiskFalsePositive, impact.PotentialRisks[0].Type)
	assert.Equal(t, domain.SeverityHigh, impact.PotentialRisks[0].Severity)
	assert.Equal(t, 2, impact.PotentialRisks[0].AffectedCount)
	assert.Equal(t, domain.RiskFalseNegative, impact.PotentialRisks[1].Type)
	assert.Equal(t, 1, impact.PotentialRisks[1].AffectedCount)
	assert.Equal(t, domain.RiskCoverageGap, impact.PotentialRisks[2].Type)
}

func TestSimulatePromptRuleSkipsReplay(t *testing.T) {
	rule := &domain.InferredRule{
		Type:       domain.ExtractionTypeAIPrompt,
		Pattern:    "extract the invoice number",
		Confidence: 0.5,
	}
	in := simulation.Input{
		FieldName: "invoice_number",
		Cases: []simulation.Case{
			{OriginalValue: "INV-1", CorrectedValue: "INV1"},
		},
	}

	impact, err := simulation.Simulate(rule, in)
	require.NoError(t, err)

	// Prompt rules cannot be replayed against stored values, so prediction
	// falls back to the inference confidence.
	assert.Equal(t, 0, impact.SimulationSummary.Tested)
	assert.InDelta(t, 50.0, impact.PredictedAccuracy, 1e-9)

	require.Len(t, impact.PotentialRisks, 2)
	assert.Equal(t, domain.RiskCoverageGap, impact.PotentialRisks[0].Type)
	assert.Equal(t, domain.RiskFormatChange, impact.PotentialRisks[1].Type)
}

func TestSimulateUsesCurrentRuleAccuracy(t *testing.T) {
	rule := keywordSeparatorRule(0.9)
	accuracy := 62.5
	in := simulation.Input{
		FieldName: "invoice_number",
		Cases: []simulation.Case{
			{OriginalValue: "INV-7", CorrectedValue: "INV7"},
		},
		CurrentAccuracy: &accuracy,
		HasCurrentRule:  true,
	}

	impact, err := simulation.Simulate(rule, in)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, impact.PredictedAccuracy, 1e-9)
	assert.InDelta(t, 37.5, impact.EstimatedImprovement, 1e-9)
	require.NotNil(t, impact.CurrentAccuracy)
	assert.InDelta(t, 62.5, *impact.CurrentAccuracy, 1e-9)
}

func TestSimulateNormalizesBeforeComparing(t *testing.T) {
	rule := &domain.InferredRule{
		Type:       domain.ExtractionTypeKeyword,
		Confidence: 0.9,
		Transforms: []domain.TransformStep{
			{Action: "remove_prefix", Value: "Total: "},
		},
	}
	in := simulation.Input{
		FieldName: "total_amount",
		Cases: []simulation.Case{
			// "1,234.56" and "1234.56" normalize to the same amount.
			{OriginalValue: "Total: 1,234.56", CorrectedValue: "1234.56"},
		},
	}

	impact, err := simulation.Simulate(rule, in)
	require.NoError(t, err)

	assert.Equal(t, 1, impact.SimulationSummary.Matched)
	assert.InDelta(t, 100.0, impact.PredictedAccuracy, 1e-9)
}

func TestSimulateIsDeterministic(t *testing.T) {
	rule := &domain.InferredRule{
		Type:       domain.ExtractionTypeRegex,
		Pattern:    `^\d{4}$`,
		Confidence: 0.6,
	}
	in := simulation.Input{
		FieldName: "invoice_number",
		Cases: []simulation.Case{
			{OriginalValue: "ab 1234 xx", CorrectedValue: "9999"},
			{OriginalValue: "zzzz", CorrectedValue: "1234"},
			{OriginalValue: "INV-5555", CorrectedValue: "5555"},
		},
		AffectedDocuments: 10,
	}

	first, err := simulation.Simulate(rule, in)
	require.NoError(t, err)
	second, err := simulation.Simulate(rule, in)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}
