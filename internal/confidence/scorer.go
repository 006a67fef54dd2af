package confidence

import (
	"math"

	"freightiq/internal/domain"
)

// Canonical factor weights. They must sum to exactly 1.0.
const (
	WeightOCRClarity    = 0.30
	WeightRulePrecision = 0.30
	WeightFormatValid   = 0.25
	WeightHistorical    = 0.15
)

// NeutralAccuracyPrior is the neutral default blended into historical accuracy
// when the observed sample is small.
const NeutralAccuracyPrior = 85.0

// Level thresholds. Boundary values are inclusive on the higher band.
const (
	thresholdHigh   = 90.0
	thresholdMedium = 70.0
)

// Routing thresholds for the document-level recommendation.
const (
	thresholdAutoApprove = 95.0
	thresholdQuickReview = 80.0
)

// methodScores maps each extraction method to its rule-match precision score.
var methodScores = map[domain.ExtractionMethod]float64{
	domain.MethodAzureField: 90,
	domain.MethodRegex:      85,
	domain.MethodKeyword:    75,
	domain.MethodPosition:   70,
	domain.MethodDefault:    60,
}

// specificRuleBonus rewards extraction by a specific rule rather than a fallback.
const specificRuleBonus = 5

// FieldInput is the per-field output of the extraction pipeline that the
// scorer consumes.
type FieldInput struct {
	FieldName       string                  `json:"field_name"`
	Value           *string                 `json:"value"`
	IsEmpty         bool                    `json:"is_empty"`
	OCRConfidence   float64                 `json:"ocr_confidence"`
	Method          domain.ExtractionMethod `json:"extraction_method"`
	RuleID          string                  `json:"rule_id,omitempty"`
	IsValid         bool                    `json:"is_valid"`
	ValidationError string                  `json:"validation_error,omitempty"`
	IsCritical      bool                    `json:"is_critical,omitempty"`
}

// HistoricalSample is the observed accuracy for a (forwarder, field) pair.
type HistoricalSample struct {
	Accuracy   float64 `json:"accuracy"`
	SampleSize int     `json:"sample_size"`
}

// Factors holds the four raw factor scores, each in [0,100].
type Factors struct {
	OCRClarity         float64 `json:"ocr_clarity"`
	RulePrecision      float64 `json:"rule_precision"`
	FormatValidity     float64 `json:"format_validity"`
	HistoricalAccuracy float64 `json:"historical_accuracy"`
}

// BreakdownEntry explains one factor's contribution to a field score.
type BreakdownEntry struct {
	Factor       string  `json:"factor"`
	Weight       float64 `json:"weight"`
	RawScore     float64 `json:"raw_score"`
	Contribution float64 `json:"contribution"`
}

// FieldResult is the immutable scoring result for one field.
type FieldResult struct {
	FieldName string                 `json:"field_name"`
	Score     float64                `json:"score"`
	Level     domain.ConfidenceLevel `json:"level"`
	Color     string                 `json:"color"`
	Factors   Factors                `json:"factors"`
	Breakdown []BreakdownEntry       `json:"breakdown"`
	IsEmpty   bool                   `json:"is_empty"`
}

// DocumentResult aggregates field results into a document-level score and
// routing recommendation.
type DocumentResult struct {
	OverallScore   float64               `json:"overall_score"`
	Level          domain.ConfidenceLevel `json:"level"`
	Recommendation domain.Recommendation `json:"recommendation"`
	Penalty        float64               `json:"penalty"`
	Fields         []FieldResult         `json:"fields"`
}

// Blend mixes an observed accuracy with a prior, weighted by sample size.
// A sample of 100 or more fully trusts the observation; smaller samples pull
// the estimate toward the prior.
func Blend(accuracy float64, sampleSize int, prior float64) float64 {
	w := float64(sampleSize) / 100
	if w > 1 {
		w = 1
	}
	if w < 0 {
		w = 0
	}
	return w*accuracy + (1-w)*prior
}

// ScoreField computes the trust score for a single extracted field.
// It is deterministic and side-effect-free: identical inputs always yield the
// same result to two decimal places.
func ScoreField(in FieldInput, hist *HistoricalSample) FieldResult {
	if in.IsEmpty {
		return FieldResult{
			FieldName: in.FieldName,
			Score:     0,
			Level:     domain.LevelLow,
			Color:     levelColor(domain.LevelLow),
			Factors:   Factors{},
			Breakdown: breakdown(Factors{}),
			IsEmpty:   true,
		}
	}

	f := Factors{
		OCRClarity:         clamp(in.OCRConfidence),
		RulePrecision:      rulePrecision(in),
		FormatValidity:     formatValidity(in),
		HistoricalAccuracy: historicalAccuracy(hist),
	}

	score := round2(f.OCRClarity*WeightOCRClarity +
		f.RulePrecision*WeightRulePrecision +
		f.FormatValidity*WeightFormatValid +
		f.HistoricalAccuracy*WeightHistorical)

	level := LevelFor(score)
	return FieldResult{
		FieldName: in.FieldName,
		Score:     score,
		Level:     level,
		Color:     levelColor(level),
		Factors:   f,
		Breakdown: breakdown(f),
	}
}

// DocumentOptions controls document-level aggregation.
type DocumentOptions struct {
	// ApplyCriticalPenalty subtracts 5 points per low-confidence critical
	// field and 2 per medium-confidence critical field.
	ApplyCriticalPenalty bool
}

// ScoreDocument scores every field and aggregates the non-empty results.
// A document with zero non-empty fields yields score 0, level low, and a
// full_review recommendation; it never errors.
func ScoreDocument(fields []FieldInput, hist map[string]HistoricalSample, opts DocumentOptions) DocumentResult {
	results := make([]FieldResult, 0, len(fields))
	var sum float64
	var scored int
	var penalty float64

	for _, in := range fields {
		var h *HistoricalSample
		if hs, ok := hist[in.FieldName]; ok {
			h = &hs
		}
		fr := ScoreField(in, h)
		results = append(results, fr)
		if fr.IsEmpty {
			continue
		}
		sum += fr.Score
		scored++
		if opts.ApplyCriticalPenalty && in.IsCritical {
			switch fr.Level {
			case domain.LevelLow:
				penalty += 5
			case domain.LevelMedium:
				penalty += 2
			}
		}
	}

	if scored == 0 {
		return DocumentResult{
			OverallScore:   0,
			Level:          domain.LevelLow,
			Recommendation: domain.RecommendFullReview,
			Fields:         results,
		}
	}

	overall := round2(sum/float64(scored) - penalty)
	if overall < 0 {
		overall = 0
	}
	return DocumentResult{
		OverallScore:   overall,
		Level:          LevelFor(overall),
		Recommendation: RecommendationFor(overall),
		Penalty:        penalty,
		Fields:         results,
	}
}

// LevelFor buckets a 0-100 score into a confidence level.
func LevelFor(score float64) domain.ConfidenceLevel {
	switch {
	case score >= thresholdHigh:
		return domain.LevelHigh
	case score >= thresholdMedium:
		return domain.LevelMedium
	default:
		return domain.LevelLow
	}
}

// RecommendationFor maps a document score to its routing decision.
func RecommendationFor(score float64) domain.Recommendation {
	switch {
	case score >= thresholdAutoApprove:
		return domain.RecommendAutoApprove
	case score >= thresholdQuickReview:
		return domain.RecommendQuickReview
	default:
		return domain.RecommendFullReview
	}
}

func rulePrecision(in FieldInput) float64 {
	score, ok := methodScores[in.Method]
	if !ok {
		score = methodScores[domain.MethodDefault]
	}
	if in.RuleID != "" {
		score += specificRuleBonus
	}
	return clamp(score)
}

func formatValidity(in FieldInput) float64 {
	score := 100.0
	if !in.IsValid {
		score -= 40
	}
	if in.ValidationError != "" {
		score -= 20
	}
	if in.Value == nil {
		score -= 30
	}
	if score < 0 {
		score = 0
	}
	return score
}

func historicalAccuracy(hist *HistoricalSample) float64 {
	if hist == nil {
		return NeutralAccuracyPrior
	}
	return clamp(Blend(hist.Accuracy, hist.SampleSize, NeutralAccuracyPrior))
}

func breakdown(f Factors) []BreakdownEntry {
	return []BreakdownEntry{
		{Factor: "ocr_clarity", Weight: WeightOCRClarity, RawScore: f.OCRClarity, Contribution: round2(f.OCRClarity * WeightOCRClarity)},
		{Factor: "rule_precision", Weight: WeightRulePrecision, RawScore: f.RulePrecision, Contribution: round2(f.RulePrecision * WeightRulePrecision)},
		{Factor: "format_validity", Weight: WeightFormatValid, RawScore: f.FormatValidity, Contribution: round2(f.FormatValidity * WeightFormatValid)},
		{Factor: "historical_accuracy", Weight: WeightHistorical, RawScore: f.HistoricalAccuracy, Contribution: round2(f.HistoricalAccuracy * WeightHistorical)},
	}
}

func levelColor(level domain.ConfidenceLevel) string {
	switch level {
	case domain.LevelHigh:
		return "green"
	case domain.LevelMedium:
		return "amber"
	default:
		return "red"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
