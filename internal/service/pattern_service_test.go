package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freightiq/internal/config"
	"freightiq/internal/domain"
	"freightiq/internal/service"
	"freightiq/mocks"
)

func learningConfig() config.LearningConfig {
	return config.LearningConfig{
		CandidateThreshold: 3,
		BatchSize:          20,
		Concurrency:        2,
		SampleLimit:        50,
		SampleCases:        5,
		WindowDays:         30,
	}
}

func correctionInput(forwarderID uuid.UUID) service.CorrectionInput {
	return service.CorrectionInput{
		ForwarderID:    forwarderID,
		DocumentID:     uuid.New(),
		FieldName:      "invoice_number",
		OriginalValue:  "INV-100001",
		CorrectedValue: "INV100001",
	}
}

func TestRecordCorrectionRejectsUnchangedValue(t *testing.T) {
	svc := service.NewPatternService(new(mocks.MockCorrectionRepo), new(mocks.MockPatternRepo), new(mocks.MockForwarderRepo), learningConfig())

	input := correctionInput(uuid.New())
	input.CorrectedValue = input.OriginalValue

	result, err := svc.RecordCorrection(context.Background(), uuid.New(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, result)
}

func TestRecordCorrectionUnknownForwarder(t *testing.T) {
	forwarderRepo := new(mocks.MockForwarderRepo)
	forwarderID := uuid.New()
	forwarderRepo.On("GetByID", mock.Anything, forwarderID).Return(nil, domain.ErrForwarderNotFound)

	svc := service.NewPatternService(new(mocks.MockCorrectionRepo), new(mocks.MockPatternRepo), forwarderRepo, learningConfig())

	result, err := svc.RecordCorrection(context.Background(), uuid.New(), correctionInput(forwarderID))
	assert.ErrorIs(t, err, domain.ErrForwarderNotFound)
	assert.Nil(t, result)
}

func TestRecordCorrectionCreatesAndLinksPattern(t *testing.T) {
	forwarderID := uuid.New()
	userID := uuid.New()
	input := correctionInput(forwarderID)
	key := service.PatternKey(forwarderID, input.FieldName, "remove_separator:-")

	forwarderRepo := new(mocks.MockForwarderRepo)
	forwarderRepo.On("GetByID", mock.Anything, forwarderID).Return(&domain.Forwarder{ID: forwarderID}, nil)

	correctionRepo := new(mocks.MockCorrectionRepo)
	correctionRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Correction) bool {
		return c.ForwarderID == forwarderID &&
			c.FieldName == input.FieldName &&
			c.CreatedBy == userID
	})).Return(nil)

	pattern := &domain.CorrectionPattern{
		ID:              uuid.New(),
		ForwarderID:     forwarderID,
		FieldName:       input.FieldName,
		PatternKey:      key,
		ValueShape:      "remove_separator:-",
		Status:          domain.PatternObserved,
		OccurrenceCount: 1,
	}
	patternRepo := new(mocks.MockPatternRepo)
	patternRepo.On("RecordOccurrence", mock.Anything, mock.MatchedBy(func(p *domain.CorrectionPattern) bool {
		return p.PatternKey == key && p.Status == domain.PatternObserved
	}), 3).Return(pattern, nil)

	correctionRepo.On("LinkPattern", mock.Anything, mock.Anything, pattern.ID).Return(nil)

	svc := service.NewPatternService(correctionRepo, patternRepo, forwarderRepo, learningConfig())

	result, err := svc.RecordCorrection(context.Background(), userID, input)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Duplicate)
	assert.Equal(t, pattern, result.Pattern)
	require.NotNil(t, result.Correction)
	require.NotNil(t, result.Correction.PatternID)
	assert.Equal(t, pattern.ID, *result.Correction.PatternID)

	correctionRepo.AssertExpectations(t)
	patternRepo.AssertExpectations(t)
}

func TestRecordCorrectionDuplicateDoesNotIncrement(t *testing.T) {
	forwarderID := uuid.New()
	input := correctionInput(forwarderID)
	key := service.PatternKey(forwarderID, input.FieldName, "remove_separator:-")

	forwarderRepo := new(mocks.MockForwarderRepo)
	forwarderRepo.On("GetByID", mock.Anything, forwarderID).Return(&domain.Forwarder{ID: forwarderID}, nil)

	existingPattern := &domain.CorrectionPattern{ID: uuid.New(), PatternKey: key, OccurrenceCount: 2}
	recorded := &domain.Correction{
		ID:             uuid.New(),
		ForwarderID:    forwarderID,
		DocumentID:     input.DocumentID,
		FieldName:      input.FieldName,
		OriginalValue:  input.OriginalValue,
		CorrectedValue: input.CorrectedValue,
		PatternID:      &existingPattern.ID,
	}

	correctionRepo := new(mocks.MockCorrectionRepo)
	correctionRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateCorrection)
	correctionRepo.On("GetByEdit", mock.Anything, input.DocumentID, input.FieldName, input.OriginalValue, input.CorrectedValue).
		Return(recorded, nil)

	patternRepo := new(mocks.MockPatternRepo)
	patternRepo.On("GetByKey", mock.Anything, key).Return(existingPattern, nil)

	svc := service.NewPatternService(correctionRepo, patternRepo, forwarderRepo, learningConfig())

	result, err := svc.RecordCorrection(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	assert.True(t, result.Duplicate)
	assert.Equal(t, existingPattern, result.Pattern)
	assert.Equal(t, recorded, result.Correction)
	patternRepo.AssertNotCalled(t, "RecordOccurrence", mock.Anything, mock.Anything, mock.Anything)
	correctionRepo.AssertNotCalled(t, "LinkPattern", mock.Anything, mock.Anything, mock.Anything)
}

// A record call can die between inserting the correction and counting it
// against the pattern. The retry hits the duplicate guard, finds the row
// unlinked, and must finish the fold-in instead of reporting the pattern
// missing and dropping the occurrence.
func TestRecordCorrectionRetryCompletesFoldIn(t *testing.T) {
	forwarderID := uuid.New()
	input := correctionInput(forwarderID)
	key := service.PatternKey(forwarderID, input.FieldName, "remove_separator:-")

	forwarderRepo := new(mocks.MockForwarderRepo)
	forwarderRepo.On("GetByID", mock.Anything, forwarderID).Return(&domain.Forwarder{ID: forwarderID}, nil)

	orphaned := &domain.Correction{
		ID:             uuid.New(),
		ForwarderID:    forwarderID,
		DocumentID:     input.DocumentID,
		FieldName:      input.FieldName,
		OriginalValue:  input.OriginalValue,
		CorrectedValue: input.CorrectedValue,
	}

	correctionRepo := new(mocks.MockCorrectionRepo)
	correctionRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateCorrection)
	correctionRepo.On("GetByEdit", mock.Anything, input.DocumentID, input.FieldName, input.OriginalValue, input.CorrectedValue).
		Return(orphaned, nil)

	pattern := &domain.CorrectionPattern{
		ID:              uuid.New(),
		ForwarderID:     forwarderID,
		FieldName:       input.FieldName,
		PatternKey:      key,
		ValueShape:      "remove_separator:-",
		Status:          domain.PatternObserved,
		OccurrenceCount: 1,
	}
	patternRepo := new(mocks.MockPatternRepo)
	patternRepo.On("RecordOccurrence", mock.Anything, mock.MatchedBy(func(p *domain.CorrectionPattern) bool {
		return p.PatternKey == key && p.ForwarderID == forwarderID
	}), 3).Return(pattern, nil)

	correctionRepo.On("LinkPattern", mock.Anything, orphaned.ID, pattern.ID).Return(nil)

	svc := service.NewPatternService(correctionRepo, patternRepo, forwarderRepo, learningConfig())

	result, err := svc.RecordCorrection(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	assert.False(t, result.Duplicate)
	assert.Equal(t, pattern, result.Pattern)
	require.NotNil(t, result.Correction.PatternID)
	assert.Equal(t, pattern.ID, *result.Correction.PatternID)

	correctionRepo.AssertExpectations(t)
	patternRepo.AssertExpectations(t)
}

func TestPatternKeyIsScopedAndStable(t *testing.T) {
	forwarderID := uuid.New()

	key := service.PatternKey(forwarderID, "invoice_number", "remove_separator:-")
	assert.Equal(t, key, service.PatternKey(forwarderID, "invoice_number", "remove_separator:-"))
	assert.Len(t, key, 64)

	assert.NotEqual(t, key, service.PatternKey(uuid.New(), "invoice_number", "remove_separator:-"))
	assert.NotEqual(t, key, service.PatternKey(forwarderID, "hawb_number", "remove_separator:-"))
	assert.NotEqual(t, key, service.PatternKey(forwarderID, "invoice_number", "remove_prefix:REF "))
}
