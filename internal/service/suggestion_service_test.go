package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freightiq/internal/domain"
	"freightiq/internal/inference"
	"freightiq/internal/service"
	"freightiq/mocks"
)

type suggestionFixture struct {
	suggestionRepo *mocks.MockSuggestionRepo
	patternRepo    *mocks.MockPatternRepo
	correctionRepo *mocks.MockCorrectionRepo
	ruleStore      *mocks.MockRuleStore
	accuracyRepo   *mocks.MockAccuracyRepo
	historyRepo    *mocks.MockHistoryRepo
	userRepo       *mocks.MockUserRepo
	notifier       *mocks.MockNotifier
	svc            service.SuggestionService
}

func newSuggestionFixture() *suggestionFixture {
	f := &suggestionFixture{
		suggestionRepo: new(mocks.MockSuggestionRepo),
		patternRepo:    new(mocks.MockPatternRepo),
		correctionRepo: new(mocks.MockCorrectionRepo),
		ruleStore:      new(mocks.MockRuleStore),
		accuracyRepo:   new(mocks.MockAccuracyRepo),
		historyRepo:    new(mocks.MockHistoryRepo),
		userRepo:       new(mocks.MockUserRepo),
		notifier:       new(mocks.MockNotifier),
	}
	f.svc = service.NewSuggestionService(
		f.suggestionRepo,
		f.patternRepo,
		f.correctionRepo,
		f.ruleStore,
		f.accuracyRepo,
		f.historyRepo,
		f.userRepo,
		f.notifier,
		inference.NewEngine(),
		learningConfig(),
		"https://app.example.com",
	)
	return f
}

func candidatePattern() *domain.CorrectionPattern {
	return &domain.CorrectionPattern{
		ID:              uuid.New(),
		ForwarderID:     uuid.New(),
		FieldName:       "invoice_number",
		PatternKey:      "abc123",
		ValueShape:      "remove_separator:-",
		Status:          domain.PatternCandidate,
		OccurrenceCount: 3,
	}
}

func separatorCorrections(patternID uuid.UUID) []domain.Correction {
	id := patternID
	return []domain.Correction{
		{ID: uuid.New(), OriginalValue: "INV-100001", CorrectedValue: "INV100001", PatternID: &id},
		{ID: uuid.New(), OriginalValue: "INV-100002", CorrectedValue: "INV100002", PatternID: &id},
		{ID: uuid.New(), OriginalValue: "INV-100003", CorrectedValue: "INV100003", PatternID: &id},
	}
}

func TestGenerateFromPatternHappyPath(t *testing.T) {
	f := newSuggestionFixture()
	pattern := candidatePattern()

	f.patternRepo.On("GetByID", mock.Anything, pattern.ID).Return(pattern, nil)
	f.correctionRepo.On("ListByPattern", mock.Anything, pattern.ID, 50).
		Return(separatorCorrections(pattern.ID), nil)
	f.correctionRepo.On("ListFieldCorrections", mock.Anything, pattern.ForwarderID, pattern.FieldName, mock.Anything, mock.Anything).
		Return(separatorCorrections(pattern.ID), nil)
	f.ruleStore.On("GetActive", mock.Anything, pattern.ForwarderID, pattern.FieldName).
		Return(nil, domain.ErrNotFound)
	f.historyRepo.On("CountAffectedDocuments", mock.Anything, pattern.ForwarderID, pattern.FieldName, mock.Anything).
		Return(12, nil)
	f.accuracyRepo.On("Get", mock.Anything, pattern.ForwarderID, pattern.FieldName).
		Return(nil, domain.ErrNotFound)
	f.suggestionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.RuleSuggestion) bool {
		return s.ForwarderID == pattern.ForwarderID &&
			s.FieldName == pattern.FieldName &&
			s.Status == domain.SuggestionPending &&
			s.Source == domain.SourceAutoLearning &&
			s.PatternID != nil && *s.PatternID == pattern.ID
	})).Return(nil)
	f.patternRepo.On("SetStatus", mock.Anything, pattern.ID, domain.PatternCandidate, domain.PatternSuggested).
		Return(nil)
	f.userRepo.On("ListByRoles", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	suggestion, err := f.svc.GenerateFromPattern(context.Background(), pattern.ID)
	require.NoError(t, err)
	require.NotNil(t, suggestion)

	assert.Equal(t, domain.ExtractionTypeKeyword, suggestion.ExtractionType)
	assert.InDelta(t, 0.9, suggestion.Confidence, 1e-9)
	assert.Nil(t, suggestion.CurrentPattern)
	assert.Equal(t, 3, suggestion.CorrectionCount)
	// 3 occurrences contribute 15 points, confidence 0.9 contributes 45.
	assert.InDelta(t, 60.0, suggestion.Priority, 1e-9)
	assert.JSONEq(t, `[
		{"original_value":"INV-100001","corrected_value":"INV100001"},
		{"original_value":"INV-100002","corrected_value":"INV100002"},
		{"original_value":"INV-100003","corrected_value":"INV100003"}
	]`, string(suggestion.SampleCases))

	f.suggestionRepo.AssertExpectations(t)
	f.patternRepo.AssertExpectations(t)
}

// A rule inferred from one pattern's samples is replayed against every recent
// correction on the field. Corrections of a different shape must be able to
// drag the predicted accuracy down and surface a false-positive risk.
func TestGenerateFromPatternWindowExposesDegradation(t *testing.T) {
	f := newSuggestionFixture()
	pattern := candidatePattern()

	window := append(separatorCorrections(pattern.ID),
		domain.Correction{ID: uuid.New(), OriginalValue: "INV-100009 DRAFT", CorrectedValue: "INV100009"},
		domain.Correction{ID: uuid.New(), OriginalValue: "INV-100010 DRAFT", CorrectedValue: "INV100010"},
	)

	f.patternRepo.On("GetByID", mock.Anything, pattern.ID).Return(pattern, nil)
	f.correctionRepo.On("ListByPattern", mock.Anything, pattern.ID, 50).
		Return(separatorCorrections(pattern.ID), nil)
	f.correctionRepo.On("ListFieldCorrections", mock.Anything, pattern.ForwarderID, pattern.FieldName, mock.Anything, mock.Anything).
		Return(window, nil)
	f.ruleStore.On("GetActive", mock.Anything, pattern.ForwarderID, pattern.FieldName).
		Return(nil, domain.ErrNotFound)
	f.historyRepo.On("CountAffectedDocuments", mock.Anything, pattern.ForwarderID, pattern.FieldName, mock.Anything).
		Return(20, nil)
	f.accuracyRepo.On("Get", mock.Anything, pattern.ForwarderID, pattern.FieldName).
		Return(nil, domain.ErrNotFound)
	f.suggestionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.patternRepo.On("SetStatus", mock.Anything, pattern.ID, domain.PatternCandidate, domain.PatternSuggested).
		Return(nil)
	f.userRepo.On("ListByRoles", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	suggestion, err := f.svc.GenerateFromPattern(context.Background(), pattern.ID)
	require.NoError(t, err)

	// The separator-removal rule still wins inference on the pattern samples.
	assert.Equal(t, domain.ExtractionTypeKeyword, suggestion.ExtractionType)

	var impact domain.ExpectedImpact
	require.NoError(t, json.Unmarshal(suggestion.ExpectedImpact, &impact))

	// "INV-100009 DRAFT" becomes "INV100009 DRAFT", not "INV100009".
	assert.Equal(t, 5, impact.SimulationSummary.Tested)
	assert.Equal(t, 3, impact.SimulationSummary.Matched)
	assert.Equal(t, 2, impact.SimulationSummary.Degraded)
	assert.InDelta(t, 60.0, impact.PredictedAccuracy, 1e-9)

	require.Len(t, impact.PotentialRisks, 1)
	assert.Equal(t, domain.RiskFalsePositive, impact.PotentialRisks[0].Type)
	assert.Equal(t, 2, impact.PotentialRisks[0].AffectedCount)

	f.correctionRepo.AssertExpectations(t)
}

func TestGenerateFromPatternNotCandidate(t *testing.T) {
	f := newSuggestionFixture()
	pattern := candidatePattern()
	pattern.Status = domain.PatternObserved

	f.patternRepo.On("GetByID", mock.Anything, pattern.ID).Return(pattern, nil)

	suggestion, err := f.svc.GenerateFromPattern(context.Background(), pattern.ID)
	assert.ErrorIs(t, err, domain.ErrPatternNotCandidate)
	assert.Nil(t, suggestion)
	f.correctionRepo.AssertNotCalled(t, "ListByPattern", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateFromPatternNoSamples(t *testing.T) {
	f := newSuggestionFixture()
	pattern := candidatePattern()

	f.patternRepo.On("GetByID", mock.Anything, pattern.ID).Return(pattern, nil)
	f.correctionRepo.On("ListByPattern", mock.Anything, pattern.ID, 50).
		Return([]domain.Correction{}, nil)

	suggestion, err := f.svc.GenerateFromPattern(context.Background(), pattern.ID)
	assert.ErrorIs(t, err, domain.ErrNoSamples)
	assert.Nil(t, suggestion)
}

func TestGenerateFromPatternDuplicateSuggestion(t *testing.T) {
	f := newSuggestionFixture()
	pattern := candidatePattern()

	f.patternRepo.On("GetByID", mock.Anything, pattern.ID).Return(pattern, nil)
	f.correctionRepo.On("ListByPattern", mock.Anything, pattern.ID, 50).
		Return(separatorCorrections(pattern.ID), nil)
	f.correctionRepo.On("ListFieldCorrections", mock.Anything, pattern.ForwarderID, pattern.FieldName, mock.Anything, mock.Anything).
		Return(separatorCorrections(pattern.ID), nil)
	f.ruleStore.On("GetActive", mock.Anything, pattern.ForwarderID, pattern.FieldName).
		Return(nil, domain.ErrNotFound)
	f.historyRepo.On("CountAffectedDocuments", mock.Anything, pattern.ForwarderID, pattern.FieldName, mock.Anything).
		Return(0, nil)
	f.accuracyRepo.On("Get", mock.Anything, pattern.ForwarderID, pattern.FieldName).
		Return(nil, domain.ErrNotFound)
	f.suggestionRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateSuggestion)

	suggestion, err := f.svc.GenerateFromPattern(context.Background(), pattern.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateSuggestion)
	assert.Nil(t, suggestion)
	f.patternRepo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateManualInvalidExtractionType(t *testing.T) {
	f := newSuggestionFixture()

	suggestion, err := f.svc.CreateManual(context.Background(), uuid.New(), service.ManualSuggestionInput{
		ForwarderID:      uuid.New(),
		FieldName:        "hawb_number",
		ExtractionType:   domain.ExtractionType("MAGIC"),
		SuggestedPattern: `\d+`,
		Explanation:      "test",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, suggestion)
}

func TestCreateManualCapturesCurrentPattern(t *testing.T) {
	f := newSuggestionFixture()
	forwarderID := uuid.New()

	f.ruleStore.On("GetActive", mock.Anything, forwarderID, "hawb_number").
		Return(&domain.ExtractionRule{Pattern: `\d{8}`}, nil)
	f.suggestionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	suggestion, err := f.svc.CreateManual(context.Background(), uuid.New(), service.ManualSuggestionInput{
		ForwarderID:      forwarderID,
		FieldName:        "hawb_number",
		ExtractionType:   domain.ExtractionTypeRegex,
		SuggestedPattern: `\d{10}`,
		Explanation:      "longer HAWB numbers rolled out",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceManual, suggestion.Source)
	assert.InDelta(t, 1.0, suggestion.Confidence, 1e-9)
	require.NotNil(t, suggestion.CurrentPattern)
	assert.Equal(t, `\d{8}`, *suggestion.CurrentPattern)
	assert.Nil(t, suggestion.PatternID)
	// No occurrence history: priority comes from confidence alone.
	assert.InDelta(t, 50.0, suggestion.Priority, 1e-9)
}

func TestReviewApprove(t *testing.T) {
	f := newSuggestionFixture()
	reviewerID := uuid.New()
	suggestion := &domain.RuleSuggestion{ID: uuid.New(), Status: domain.SuggestionPending}

	f.suggestionRepo.On("GetByID", mock.Anything, suggestion.ID).Return(suggestion, nil)
	f.suggestionRepo.On("UpdateReview", mock.Anything, mock.Anything, domain.SuggestionPending).Return(nil)

	result, err := f.svc.Review(context.Background(), reviewerID, suggestion.ID, service.ReviewInput{
		Action: domain.ActionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SuggestionApproved, result.Status)
	require.NotNil(t, result.ReviewedBy)
	assert.Equal(t, reviewerID, *result.ReviewedBy)
	assert.NotNil(t, result.ReviewedAt)
	f.ruleStore.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestReviewRejectRequiresReason(t *testing.T) {
	f := newSuggestionFixture()
	suggestion := &domain.RuleSuggestion{ID: uuid.New(), Status: domain.SuggestionPending}

	f.suggestionRepo.On("GetByID", mock.Anything, suggestion.ID).Return(suggestion, nil)

	_, err := f.svc.Review(context.Background(), uuid.New(), suggestion.ID, service.ReviewInput{
		Action: domain.ActionReject,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.suggestionRepo.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewImplementUpsertsRule(t *testing.T) {
	f := newSuggestionFixture()
	suggestion := &domain.RuleSuggestion{
		ID:               uuid.New(),
		ForwarderID:      uuid.New(),
		FieldName:        "invoice_number",
		ExtractionType:   domain.ExtractionTypeKeyword,
		SuggestedPattern: `{"action":"remove_separator","value":"-"}`,
		Status:           domain.SuggestionApproved,
	}

	f.suggestionRepo.On("GetByID", mock.Anything, suggestion.ID).Return(suggestion, nil)
	f.ruleStore.On("Upsert", mock.Anything, mock.MatchedBy(func(r *domain.ExtractionRule) bool {
		return r.ForwarderID == suggestion.ForwarderID &&
			r.FieldName == suggestion.FieldName &&
			r.RuleType == domain.ExtractionTypeKeyword &&
			r.Pattern == suggestion.SuggestedPattern &&
			r.IsActive
	})).Return(nil)
	f.suggestionRepo.On("UpdateReview", mock.Anything, mock.Anything, domain.SuggestionApproved).Return(nil)

	result, err := f.svc.Review(context.Background(), uuid.New(), suggestion.ID, service.ReviewInput{
		Action: domain.ActionImplement,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SuggestionImplemented, result.Status)
	f.ruleStore.AssertExpectations(t)
}

func TestReviewImplementBeforeApprovalFails(t *testing.T) {
	f := newSuggestionFixture()
	suggestion := &domain.RuleSuggestion{ID: uuid.New(), Status: domain.SuggestionPending}

	f.suggestionRepo.On("GetByID", mock.Anything, suggestion.ID).Return(suggestion, nil)

	_, err := f.svc.Review(context.Background(), uuid.New(), suggestion.ID, service.ReviewInput{
		Action: domain.ActionImplement,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	f.ruleStore.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestReviewSecondActionFails(t *testing.T) {
	f := newSuggestionFixture()
	suggestion := &domain.RuleSuggestion{ID: uuid.New(), Status: domain.SuggestionRejected}

	f.suggestionRepo.On("GetByID", mock.Anything, suggestion.ID).Return(suggestion, nil)

	_, err := f.svc.Review(context.Background(), uuid.New(), suggestion.ID, service.ReviewInput{
		Action: domain.ActionApprove,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestListClampsPaging(t *testing.T) {
	f := newSuggestionFixture()

	f.suggestionRepo.On("ListByStatus", mock.Anything, domain.SuggestionPending, 0, 20).
		Return([]domain.RuleSuggestion{}, 0, nil)

	page, err := f.svc.List(context.Background(), domain.SuggestionPending, 0, 500)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	f.suggestionRepo.AssertExpectations(t)
}
