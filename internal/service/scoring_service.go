package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"freightiq/internal/confidence"
	"freightiq/internal/domain"
	"freightiq/internal/port"
)

// ScoreDocumentInput is the DTO for document scoring requests.
type ScoreDocumentInput struct {
	ForwarderID uuid.UUID               `json:"forwarder_id" binding:"required"`
	Fields      []confidence.FieldInput `json:"fields" binding:"required"`
}

// ScoringService computes trust scores for extracted documents.
type ScoringService interface {
	// ScoreDocument scores every extracted field against historical accuracy
	// for the forwarder and aggregates the results into a routing decision.
	ScoreDocument(ctx context.Context, input ScoreDocumentInput) (*confidence.DocumentResult, error)
}

type scoringService struct {
	accuracyRepo  port.AccuracyRepository
	forwarderRepo port.ForwarderRepository
}

// NewScoringService creates a new ScoringService implementation.
func NewScoringService(accuracyRepo port.AccuracyRepository, forwarderRepo port.ForwarderRepository) ScoringService {
	return &scoringService{accuracyRepo: accuracyRepo, forwarderRepo: forwarderRepo}
}

func (s *scoringService) ScoreDocument(ctx context.Context, input ScoreDocumentInput) (*confidence.DocumentResult, error) {
	if _, err := s.forwarderRepo.GetByID(ctx, input.ForwarderID); err != nil {
		if errors.Is(err, domain.ErrForwarderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("scoring.ScoreDocument: %w", err)
	}

	fieldNames := make([]string, 0, len(input.Fields))
	for _, f := range input.Fields {
		fieldNames = append(fieldNames, f.FieldName)
	}

	accuracies, err := s.accuracyRepo.GetForFields(ctx, input.ForwarderID, fieldNames)
	if err != nil {
		return nil, fmt.Errorf("scoring.ScoreDocument: %w", err)
	}

	hist := make(map[string]confidence.HistoricalSample, len(accuracies))
	for name, a := range accuracies {
		hist[name] = confidence.HistoricalSample{Accuracy: a.Accuracy, SampleSize: a.SampleSize}
	}

	result := confidence.ScoreDocument(input.Fields, hist, confidence.DocumentOptions{
		ApplyCriticalPenalty: true,
	})
	return &result, nil
}
