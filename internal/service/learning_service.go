package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"freightiq/internal/config"
	"freightiq/internal/domain"
	"freightiq/internal/port"
)

// BatchError records one failed pattern in a batch run.
type BatchError struct {
	PatternID uuid.UUID `json:"pattern_id"`
	Error     string    `json:"error"`
}

// BatchResult summarizes one candidate-processing run.
type BatchResult struct {
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors,omitempty"`
}

// LearningService drives the batch side of the learning pipeline: it sweeps
// candidate patterns and turns each into a rule suggestion.
type LearningService interface {
	// ProcessCandidates runs the inference pipeline over up to BatchSize
	// candidate patterns, bounded by the configured concurrency. A failing
	// pattern never aborts the batch; its error is recorded and the sweep
	// continues.
	ProcessCandidates(ctx context.Context) (*BatchResult, error)
}

type learningService struct {
	patternRepo   port.PatternRepository
	suggestionSvc SuggestionService
	cfg           config.LearningConfig
}

// NewLearningService creates a new LearningService implementation.
func NewLearningService(
	patternRepo port.PatternRepository,
	suggestionSvc SuggestionService,
	cfg config.LearningConfig,
) LearningService {
	return &learningService{
		patternRepo:   patternRepo,
		suggestionSvc: suggestionSvc,
		cfg:           cfg,
	}
}

func (s *learningService) ProcessCandidates(ctx context.Context) (*BatchResult, error) {
	candidates, err := s.patternRepo.ListCandidates(ctx, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("learning.ProcessCandidates: %w", err)
	}

	result := &BatchResult{Processed: len(candidates)}
	if len(candidates) == 0 {
		return result, nil
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.cfg.Concurrency)
	)

	for i := range candidates {
		pattern := candidates[i]

		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			_, err := s.suggestionSvc.GenerateFromPattern(ctx, pattern.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Succeeded++
			case errors.Is(err, domain.ErrDuplicateSuggestion),
				errors.Is(err, domain.ErrPatternNotCandidate):
				// Another run got there first. Nothing to retry.
				result.Skipped++
			default:
				result.Failed++
				result.Errors = append(result.Errors, BatchError{
					PatternID: pattern.ID,
					Error:     err.Error(),
				})
				log.Printf("learningService: pattern %s failed: %v", pattern.ID, err)
			}
		}()
	}
	wg.Wait()

	log.Printf("learningService: batch done (processed=%d, succeeded=%d, skipped=%d, failed=%d)",
		result.Processed, result.Succeeded, result.Skipped, result.Failed)
	return result, nil
}
