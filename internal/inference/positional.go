package inference

import (
	"encoding/json"
	"fmt"

	"freightiq/internal/domain"
)

// Positional inference needs at least this many samples carrying layout
// context, and rejects regions whose placement drifts more than maxDrift.
const (
	minPositionalSamples = 2
	maxDrift             = 0.05
)

const (
	positionalConfidenceStable  = 0.75
	positionalConfidenceDrifted = 0.6
)

// positionalStrategy infers a POSITION rule anchored to the region the
// corrected values were read from. Only attempted for template-stable layouts
// where corrections carry bounding boxes.
type positionalStrategy struct{}

// NewPositionalStrategy returns the positional inference strategy.
func NewPositionalStrategy() Strategy {
	return positionalStrategy{}
}

func (positionalStrategy) Name() string { return "positional" }

func (positionalStrategy) Infer(samples []Sample) *domain.InferredRule {
	var boxes []domain.BoundingBox
	page := 0
	for _, s := range samples {
		if s.Context == nil || s.Context.BoundingBox == nil {
			continue
		}
		boxes = append(boxes, *s.Context.BoundingBox)
		if page == 0 {
			page = s.Context.Page
		}
	}
	if len(boxes) < minPositionalSamples {
		return nil
	}

	region := meanBox(boxes)
	drift := maxDeviation(boxes, region)

	confidence := positionalConfidenceStable
	if drift > maxDrift {
		confidence = positionalConfidenceDrifted
	}

	payload, _ := json.Marshal(struct {
		Page   int                `json:"page"`
		Region domain.BoundingBox `json:"region"`
	}{Page: page, Region: region})

	return &domain.InferredRule{
		Type:       domain.ExtractionTypePosition,
		Pattern:    string(payload),
		Confidence: confidence,
		Explanation: fmt.Sprintf("anchored to the region where %d corrections were located (max drift %.3f)",
			len(boxes), drift),
	}
}

func meanBox(boxes []domain.BoundingBox) domain.BoundingBox {
	var sum domain.BoundingBox
	for _, b := range boxes {
		sum.X += b.X
		sum.Y += b.Y
		sum.Width += b.Width
		sum.Height += b.Height
	}
	n := float64(len(boxes))
	return domain.BoundingBox{X: sum.X / n, Y: sum.Y / n, Width: sum.Width / n, Height: sum.Height / n}
}

func maxDeviation(boxes []domain.BoundingBox, mean domain.BoundingBox) float64 {
	var max float64
	for _, b := range boxes {
		for _, d := range []float64{b.X - mean.X, b.Y - mean.Y} {
			if d < 0 {
				d = -d
			}
			if d > max {
				max = d
			}
		}
	}
	return max
}
