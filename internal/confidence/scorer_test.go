package confidence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freightiq/internal/confidence"
	"freightiq/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestFactorWeightsSumToOne(t *testing.T) {
	sum := confidence.WeightOCRClarity + confidence.WeightRulePrecision +
		confidence.WeightFormatValid + confidence.WeightHistorical
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBlend(t *testing.T) {
	// A large sample fully trusts the observation.
	assert.InDelta(t, 60.0, confidence.Blend(60, 100, 85), 1e-9)
	assert.InDelta(t, 60.0, confidence.Blend(60, 250, 85), 1e-9)

	// No sample falls back to the prior.
	assert.InDelta(t, 85.0, confidence.Blend(60, 0, 85), 1e-9)

	// A half sample sits halfway between.
	assert.InDelta(t, 72.5, confidence.Blend(60, 50, 85), 1e-9)
}

func TestScoreFieldEmpty(t *testing.T) {
	result := confidence.ScoreField(confidence.FieldInput{
		FieldName: "invoice_number",
		IsEmpty:   true,
	}, nil)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, domain.LevelLow, result.Level)
	assert.Equal(t, "red", result.Color)
	assert.True(t, result.IsEmpty)
}

func TestScoreFieldCleanExtraction(t *testing.T) {
	in := confidence.FieldInput{
		FieldName:     "invoice_number",
		Value:         strPtr("INV-12345"),
		OCRConfidence: 100,
		Method:        domain.MethodRegex,
		RuleID:        "rule-7",
		IsValid:       true,
	}

	result := confidence.ScoreField(in, nil)

	// 100*0.30 + (85+5)*0.30 + 100*0.25 + 85*0.15
	assert.InDelta(t, 94.75, result.Score, 1e-9)
	assert.Equal(t, domain.LevelHigh, result.Level)
	assert.Equal(t, "green", result.Color)
	assert.InDelta(t, 85.0, result.Factors.HistoricalAccuracy, 1e-9)
	assert.Len(t, result.Breakdown, 4)
}

func TestScoreFieldInvalidFormatPenalties(t *testing.T) {
	in := confidence.FieldInput{
		FieldName:       "total_amount",
		Value:           strPtr("??"),
		OCRConfidence:   80,
		Method:          domain.MethodDefault,
		IsValid:         false,
		ValidationError: "not a number",
	}

	result := confidence.ScoreField(in, nil)

	// Invalid costs 40, a validation error another 20.
	assert.InDelta(t, 40.0, result.Factors.FormatValidity, 1e-9)
	assert.Equal(t, domain.LevelLow, result.Level)
}

func TestScoreFieldIsDeterministic(t *testing.T) {
	in := confidence.FieldInput{
		FieldName:     "hawb_number",
		Value:         strPtr("HAWB998877"),
		OCRConfidence: 91.3,
		Method:        domain.MethodKeyword,
		IsValid:       true,
	}
	hist := &confidence.HistoricalSample{Accuracy: 72, SampleSize: 40}

	first := confidence.ScoreField(in, hist)
	second := confidence.ScoreField(in, hist)
	assert.Equal(t, first, second)
}

func TestLevelForBoundaries(t *testing.T) {
	assert.Equal(t, domain.LevelHigh, confidence.LevelFor(90))
	assert.Equal(t, domain.LevelMedium, confidence.LevelFor(89.99))
	assert.Equal(t, domain.LevelMedium, confidence.LevelFor(70))
	assert.Equal(t, domain.LevelLow, confidence.LevelFor(69.99))
}

func TestRecommendationForBoundaries(t *testing.T) {
	assert.Equal(t, domain.RecommendAutoApprove, confidence.RecommendationFor(95))
	assert.Equal(t, domain.RecommendQuickReview, confidence.RecommendationFor(94.99))
	assert.Equal(t, domain.RecommendQuickReview, confidence.RecommendationFor(80))
	assert.Equal(t, domain.RecommendFullReview, confidence.RecommendationFor(79.99))
}

func TestScoreDocumentAllEmpty(t *testing.T) {
	result := confidence.ScoreDocument([]confidence.FieldInput{
		{FieldName: "a", IsEmpty: true},
		{FieldName: "b", IsEmpty: true},
	}, nil, confidence.DocumentOptions{})

	assert.Equal(t, 0.0, result.OverallScore)
	assert.Equal(t, domain.LevelLow, result.Level)
	assert.Equal(t, domain.RecommendFullReview, result.Recommendation)
	assert.Len(t, result.Fields, 2)
}

func TestScoreDocumentSkipsEmptyFieldsInMean(t *testing.T) {
	fields := []confidence.FieldInput{
		{
			FieldName:     "invoice_number",
			Value:         strPtr("INV-1"),
			OCRConfidence: 100,
			Method:        domain.MethodRegex,
			RuleID:        "r",
			IsValid:       true,
		},
		{FieldName: "notes", IsEmpty: true},
	}

	result := confidence.ScoreDocument(fields, nil, confidence.DocumentOptions{})

	// The empty field must not drag the mean down.
	assert.InDelta(t, 94.75, result.OverallScore, 1e-9)
}

func TestScoreDocumentCriticalPenalty(t *testing.T) {
	lowCritical := confidence.FieldInput{
		FieldName:     "total_amount",
		Value:         strPtr("x"),
		OCRConfidence: 10,
		Method:        domain.MethodDefault,
		IsValid:       false,
		IsCritical:    true,
	}
	fields := []confidence.FieldInput{lowCritical}

	withPenalty := confidence.ScoreDocument(fields, nil, confidence.DocumentOptions{ApplyCriticalPenalty: true})
	withoutPenalty := confidence.ScoreDocument(fields, nil, confidence.DocumentOptions{})

	assert.Equal(t, 5.0, withPenalty.Penalty)
	assert.InDelta(t, withoutPenalty.OverallScore-5, withPenalty.OverallScore, 1e-9)
}

func TestScoreDocumentUsesHistoricalAccuracy(t *testing.T) {
	fields := []confidence.FieldInput{{
		FieldName:     "invoice_number",
		Value:         strPtr("INV-1"),
		OCRConfidence: 100,
		Method:        domain.MethodRegex,
		RuleID:        "r",
		IsValid:       true,
	}}
	hist := map[string]confidence.HistoricalSample{
		"invoice_number": {Accuracy: 50, SampleSize: 100},
	}

	result := confidence.ScoreDocument(fields, hist, confidence.DocumentOptions{})

	// 100*0.30 + 90*0.30 + 100*0.25 + 50*0.15
	assert.InDelta(t, 89.5, result.OverallScore, 1e-9)
	assert.Equal(t, domain.LevelMedium, result.Level)
}
