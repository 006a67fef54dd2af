package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"freightiq/internal/config"
	"freightiq/internal/domain"
	"freightiq/internal/inference"
	"freightiq/internal/port"
)

// CorrectionInput is the DTO for recording a reviewer correction.
type CorrectionInput struct {
	ForwarderID    uuid.UUID            `json:"forwarder_id" binding:"required"`
	DocumentID     uuid.UUID            `json:"document_id" binding:"required"`
	FieldName      string               `json:"field_name" binding:"required"`
	OriginalValue  string               `json:"original_value" binding:"required"`
	CorrectedValue string               `json:"corrected_value" binding:"required"`
	Context        *domain.FieldContext `json:"context,omitempty"`
}

// CorrectionResult reports the outcome of recording a correction.
type CorrectionResult struct {
	Correction *domain.Correction        `json:"correction"`
	Pattern    *domain.CorrectionPattern `json:"pattern"`
	// Duplicate is true when the same (document, field, original, corrected)
	// edit had already been recorded; the pattern count is not incremented
	// again in that case.
	Duplicate bool `json:"duplicate"`
}

// PatternService groups corrections into recurring patterns.
type PatternService interface {
	// RecordCorrection appends the correction and folds it into its pattern,
	// atomically incrementing the occurrence count and promoting the pattern
	// to candidate when it crosses the threshold. Replaying the same
	// correction is a no-op on the count.
	RecordCorrection(ctx context.Context, userID uuid.UUID, input CorrectionInput) (*CorrectionResult, error)
	GetPattern(ctx context.Context, id uuid.UUID) (*domain.CorrectionPattern, error)
}

type patternService struct {
	correctionRepo port.CorrectionRepository
	patternRepo    port.PatternRepository
	forwarderRepo  port.ForwarderRepository
	cfg            config.LearningConfig
}

// NewPatternService creates a new PatternService implementation.
func NewPatternService(
	correctionRepo port.CorrectionRepository,
	patternRepo port.PatternRepository,
	forwarderRepo port.ForwarderRepository,
	cfg config.LearningConfig,
) PatternService {
	return &patternService{
		correctionRepo: correctionRepo,
		patternRepo:    patternRepo,
		forwarderRepo:  forwarderRepo,
		cfg:            cfg,
	}
}

func (s *patternService) RecordCorrection(ctx context.Context, userID uuid.UUID, input CorrectionInput) (*CorrectionResult, error) {
	if input.OriginalValue == input.CorrectedValue {
		return nil, fmt.Errorf("%w: corrected value equals original value", domain.ErrValidation)
	}

	if _, err := s.forwarderRepo.GetByID(ctx, input.ForwarderID); err != nil {
		if errors.Is(err, domain.ErrForwarderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pattern.RecordCorrection: %w", err)
	}

	correction := &domain.Correction{
		ID:             uuid.New(),
		ForwarderID:    input.ForwarderID,
		DocumentID:     input.DocumentID,
		FieldName:      input.FieldName,
		OriginalValue:  input.OriginalValue,
		CorrectedValue: input.CorrectedValue,
		CreatedBy:      userID,
	}
	if input.Context != nil {
		raw, err := json.Marshal(input.Context)
		if err != nil {
			return nil, fmt.Errorf("pattern.RecordCorrection: marshaling context: %w", err)
		}
		correction.Context = raw
	}

	shape := inference.ShapeOf(input.OriginalValue, input.CorrectedValue)
	key := PatternKey(input.ForwarderID, input.FieldName, shape)

	err := s.correctionRepo.Create(ctx, correction)
	if errors.Is(err, domain.ErrDuplicateCorrection) {
		return s.resolveReplay(ctx, input, key, shape)
	}
	if err != nil {
		return nil, fmt.Errorf("pattern.RecordCorrection: %w", err)
	}

	pattern, err := s.foldIn(ctx, correction, key, shape)
	if err != nil {
		return nil, fmt.Errorf("pattern.RecordCorrection: %w", err)
	}

	return &CorrectionResult{Correction: correction, Pattern: pattern}, nil
}

// foldIn counts the correction against its pattern, creating the pattern on
// first sight, and links the two rows.
func (s *patternService) foldIn(ctx context.Context, correction *domain.Correction, key, shape string) (*domain.CorrectionPattern, error) {
	now := time.Now().UTC()
	pattern, err := s.patternRepo.RecordOccurrence(ctx, &domain.CorrectionPattern{
		ID:          uuid.New(),
		ForwarderID: correction.ForwarderID,
		FieldName:   correction.FieldName,
		PatternKey:  key,
		ValueShape:  shape,
		Status:      domain.PatternObserved,
		FirstSeenAt: now,
		LastSeenAt:  now,
	}, s.cfg.CandidateThreshold)
	if err != nil {
		return nil, err
	}

	if err := s.correctionRepo.LinkPattern(ctx, correction.ID, pattern.ID); err != nil {
		return nil, err
	}
	correction.PatternID = &pattern.ID
	return pattern, nil
}

// resolveReplay handles a correction whose row already exists. An unlinked
// row means an earlier call failed between the insert and the pattern
// fold-in, so the fold-in is completed now rather than losing the occurrence.
// A linked row is a genuine replay and leaves the count untouched.
func (s *patternService) resolveReplay(ctx context.Context, input CorrectionInput, key, shape string) (*CorrectionResult, error) {
	existing, err := s.correctionRepo.GetByEdit(ctx, input.DocumentID, input.FieldName, input.OriginalValue, input.CorrectedValue)
	if err != nil {
		return nil, fmt.Errorf("pattern.RecordCorrection: %w", err)
	}

	if existing.PatternID == nil {
		pattern, err := s.foldIn(ctx, existing, key, shape)
		if err != nil {
			return nil, fmt.Errorf("pattern.RecordCorrection: %w", err)
		}
		return &CorrectionResult{Correction: existing, Pattern: pattern}, nil
	}

	pattern, err := s.patternRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrPatternNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pattern.RecordCorrection: %w", err)
	}
	return &CorrectionResult{Correction: existing, Pattern: pattern, Duplicate: true}, nil
}

func (s *patternService) GetPattern(ctx context.Context, id uuid.UUID) (*domain.CorrectionPattern, error) {
	pattern, err := s.patternRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPatternNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pattern.GetPattern: %w", err)
	}
	return pattern, nil
}

// PatternKey derives the stable identity of a correction pattern from its
// scope and normalized shape.
func PatternKey(forwarderID uuid.UUID, fieldName, shape string) string {
	sum := sha256.Sum256([]byte(forwarderID.String() + "|" + fieldName + "|" + shape))
	return hex.EncodeToString(sum[:])
}
