package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"freightiq/internal/config"
	"freightiq/internal/domain"
	"freightiq/internal/inference"
	"freightiq/internal/port"
	"freightiq/internal/simulation"
)

// ManualSuggestionInput is the DTO for reviewer-authored suggestions.
type ManualSuggestionInput struct {
	ForwarderID      uuid.UUID             `json:"forwarder_id" binding:"required"`
	FieldName        string                `json:"field_name" binding:"required"`
	ExtractionType   domain.ExtractionType `json:"extraction_type" binding:"required"`
	SuggestedPattern string                `json:"suggested_pattern" binding:"required"`
	Explanation      string                `json:"explanation" binding:"required"`
}

// ReviewInput is the DTO for reviewer decisions on a suggestion.
type ReviewInput struct {
	Action domain.SuggestionAction `json:"action" binding:"required"`
	Reason string                  `json:"reason"`
}

// SuggestionPage is one page of suggestions plus the total count.
type SuggestionPage struct {
	Suggestions []domain.RuleSuggestion `json:"suggestions"`
	Total       int                     `json:"total"`
	Page        int                     `json:"page"`
	PageSize    int                     `json:"page_size"`
}

// SuggestionService manages the rule suggestion lifecycle from inference
// through reviewer decision to rule-store implementation.
type SuggestionService interface {
	// GenerateFromPattern runs the full inference pipeline for a candidate
	// pattern: sample collection, rule inference, impact simulation, and
	// suggestion creation. The pattern is promoted to SUGGESTED on success.
	GenerateFromPattern(ctx context.Context, patternID uuid.UUID) (*domain.RuleSuggestion, error)
	// CreateManual records a reviewer-authored suggestion with confidence
	// 1.0 and no backing pattern.
	CreateManual(ctx context.Context, userID uuid.UUID, input ManualSuggestionInput) (*domain.RuleSuggestion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RuleSuggestion, error)
	List(ctx context.Context, status domain.SuggestionStatus, page, pageSize int) (*SuggestionPage, error)
	// Review applies a reviewer action. Implementing a suggestion upserts
	// the extraction rule before the status transition is claimed, so a
	// failed transition never leaves an unimplemented rule marked done.
	Review(ctx context.Context, reviewerID uuid.UUID, suggestionID uuid.UUID, input ReviewInput) (*domain.RuleSuggestion, error)
}

type suggestionService struct {
	suggestionRepo port.SuggestionRepository
	patternRepo    port.PatternRepository
	correctionRepo port.CorrectionRepository
	ruleStore      port.RuleStore
	accuracyRepo   port.AccuracyRepository
	historyRepo    port.HistoryRepository
	userRepo       port.UserRepository
	notifier       port.Notifier
	engine         *inference.Engine
	cfg            config.LearningConfig
	frontendURL    string
}

// NewSuggestionService creates a new SuggestionService implementation.
func NewSuggestionService(
	suggestionRepo port.SuggestionRepository,
	patternRepo port.PatternRepository,
	correctionRepo port.CorrectionRepository,
	ruleStore port.RuleStore,
	accuracyRepo port.AccuracyRepository,
	historyRepo port.HistoryRepository,
	userRepo port.UserRepository,
	notifier port.Notifier,
	engine *inference.Engine,
	cfg config.LearningConfig,
	frontendURL string,
) SuggestionService {
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		patternRepo:    patternRepo,
		correctionRepo: correctionRepo,
		ruleStore:      ruleStore,
		accuracyRepo:   accuracyRepo,
		historyRepo:    historyRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		engine:         engine,
		cfg:            cfg,
		frontendURL:    frontendURL,
	}
}

func (s *suggestionService) GenerateFromPattern(ctx context.Context, patternID uuid.UUID) (*domain.RuleSuggestion, error) {
	pattern, err := s.patternRepo.GetByID(ctx, patternID)
	if err != nil {
		if errors.Is(err, domain.ErrPatternNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("suggestion.GenerateFromPattern: %w", err)
	}
	if pattern.Status != domain.PatternCandidate {
		return nil, domain.ErrPatternNotCandidate
	}

	corrections, err := s.correctionRepo.ListByPattern(ctx, pattern.ID, s.cfg.SampleLimit)
	if err != nil {
		return nil, fmt.Errorf("suggestion.GenerateFromPattern: %w", err)
	}
	if len(corrections) == 0 {
		return nil, domain.ErrNoSamples
	}

	samples := make([]inference.Sample, 0, len(corrections))
	for _, c := range corrections {
		samples = append(samples, inference.Sample{
			OriginalValue:  c.OriginalValue,
			CorrectedValue: c.CorrectedValue,
			Context:        c.FieldContext(),
		})
	}

	rule, err := s.engine.InferBestRule(samples)
	if err != nil {
		return nil, fmt.Errorf("suggestion.GenerateFromPattern: %w", err)
	}

	impact, currentPattern, err := s.simulate(ctx, pattern, rule, corrections)
	if err != nil {
		return nil, fmt.Errorf("suggestion.GenerateFromPattern: %w", err)
	}

	suggestion, err := s.buildSuggestion(pattern, rule, impact, currentPattern, corrections)
	if err != nil {
		return nil, fmt.Errorf("suggestion.GenerateFromPattern: %w", err)
	}

	if err := s.suggestionRepo.Create(ctx, suggestion); err != nil {
		if errors.Is(err, domain.ErrDuplicateSuggestion) {
			return nil, err
		}
		return nil, fmt.Errorf("suggestion.GenerateFromPattern: %w", err)
	}

	if err := s.patternRepo.SetStatus(ctx, pattern.ID, domain.PatternCandidate, domain.PatternSuggested); err != nil {
		// The suggestion row exists and the unique index prevents a second
		// one, so a lost promotion race is recoverable on the next pass.
		log.Printf("suggestionService: promoting pattern %s failed: %v", pattern.ID, err)
	}

	s.notifyReviewers(suggestion)
	return suggestion, nil
}

func (s *suggestionService) CreateManual(ctx context.Context, userID uuid.UUID, input ManualSuggestionInput) (*domain.RuleSuggestion, error) {
	if !validExtractionType(input.ExtractionType) {
		return nil, fmt.Errorf("%w: unknown extraction type %q", domain.ErrValidation, input.ExtractionType)
	}

	current, err := s.ruleStore.GetActive(ctx, input.ForwarderID, input.FieldName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("suggestion.CreateManual: %w", err)
	}
	var currentPattern *string
	if current != nil {
		currentPattern = &current.Pattern
	}

	now := time.Now().UTC()
	suggestion := &domain.RuleSuggestion{
		ID:               uuid.New(),
		ForwarderID:      input.ForwarderID,
		FieldName:        input.FieldName,
		ExtractionType:   input.ExtractionType,
		CurrentPattern:   currentPattern,
		SuggestedPattern: input.SuggestedPattern,
		Confidence:       1.0,
		Explanation:      input.Explanation,
		Source:           domain.SourceManual,
		ExpectedImpact:   json.RawMessage("null"),
		SampleCases:      json.RawMessage("[]"),
		Status:           domain.SuggestionPending,
		Priority:         Priority(0, 1.0),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.suggestionRepo.Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("suggestion.CreateManual: %w", err)
	}

	log.Printf("suggestionService: manual suggestion %s created by user %s for %s/%s",
		suggestion.ID, userID, input.ForwarderID, input.FieldName)
	return suggestion, nil
}

func (s *suggestionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RuleSuggestion, error) {
	suggestion, err := s.suggestionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSuggestionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("suggestion.GetByID: %w", err)
	}
	return suggestion, nil
}

func (s *suggestionService) List(ctx context.Context, status domain.SuggestionStatus, page, pageSize int) (*SuggestionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	suggestions, total, err := s.suggestionRepo.ListByStatus(ctx, status, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("suggestion.List: %w", err)
	}
	return &SuggestionPage{
		Suggestions: suggestions,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (s *suggestionService) Review(ctx context.Context, reviewerID uuid.UUID, suggestionID uuid.UUID, input ReviewInput) (*domain.RuleSuggestion, error) {
	suggestion, err := s.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		if errors.Is(err, domain.ErrSuggestionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("suggestion.Review: %w", err)
	}

	from := suggestion.Status
	next, err := domain.NextSuggestionStatus(from, input.Action)
	if err != nil {
		return nil, err
	}

	if input.Action == domain.ActionReject && input.Reason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", domain.ErrValidation)
	}

	// Implementing writes the rule before claiming the transition. The
	// upsert is idempotent per (forwarder, field), so a retry after a
	// failed transition simply re-applies the same rule.
	if input.Action == domain.ActionImplement {
		if err := s.ruleStore.Upsert(ctx, ruleFromSuggestion(suggestion)); err != nil {
			return nil, fmt.Errorf("suggestion.Review: upserting rule: %w", err)
		}
	}

	now := time.Now().UTC()
	suggestion.Status = next
	suggestion.ReviewedBy = &reviewerID
	suggestion.ReviewedAt = &now
	suggestion.ReviewReason = input.Reason
	suggestion.UpdatedAt = now

	if err := s.suggestionRepo.UpdateReview(ctx, suggestion, from); err != nil {
		if errors.Is(err, domain.ErrInvalidStateTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("suggestion.Review: %w", err)
	}

	log.Printf("suggestionService: suggestion %s %s -> %s by reviewer %s",
		suggestion.ID, from, next, reviewerID)
	return suggestion, nil
}

// windowCaseLimit caps how many recent corrections a simulation replays.
const windowCaseLimit = 500

// simulate replays the inferred rule against every recent correction on the
// (forwarder, field) pair, not just the pattern's own samples, and returns the
// expected impact plus the current production pattern, if any. Corrections of
// a different shape are what expose a rule that would degrade values it was
// never inferred from.
func (s *suggestionService) simulate(
	ctx context.Context,
	pattern *domain.CorrectionPattern,
	rule *domain.InferredRule,
	corrections []domain.Correction,
) (*domain.ExpectedImpact, *string, error) {
	since := time.Now().UTC().AddDate(0, 0, -s.cfg.WindowDays)

	current, err := s.ruleStore.GetActive(ctx, pattern.ForwarderID, pattern.FieldName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	var currentPattern *string
	if current != nil {
		currentPattern = &current.Pattern
	}

	affected, err := s.historyRepo.CountAffectedDocuments(ctx, pattern.ForwarderID, pattern.FieldName, since)
	if err != nil {
		return nil, nil, err
	}

	var currentAccuracy *float64
	accuracy, err := s.accuracyRepo.Get(ctx, pattern.ForwarderID, pattern.FieldName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if accuracy != nil {
		currentAccuracy = &accuracy.Accuracy
	}

	window, err := s.correctionRepo.ListFieldCorrections(ctx, pattern.ForwarderID, pattern.FieldName, since, windowCaseLimit)
	if err != nil {
		return nil, nil, err
	}
	if len(window) == 0 {
		// Every pattern sample predates the window. Replay the samples the
		// rule was inferred from rather than simulating against nothing.
		window = corrections
	}

	cases := make([]simulation.Case, 0, len(window))
	for _, c := range window {
		cases = append(cases, simulation.Case{
			OriginalValue:  c.OriginalValue,
			CorrectedValue: c.CorrectedValue,
		})
	}

	impact, err := simulation.Simulate(rule, simulation.Input{
		FieldName:         pattern.FieldName,
		Cases:             cases,
		AffectedDocuments: affected,
		CurrentAccuracy:   currentAccuracy,
		HasCurrentRule:    current != nil,
	})
	if err != nil {
		return nil, nil, err
	}
	return impact, currentPattern, nil
}

func (s *suggestionService) buildSuggestion(
	pattern *domain.CorrectionPattern,
	rule *domain.InferredRule,
	impact *domain.ExpectedImpact,
	currentPattern *string,
	corrections []domain.Correction,
) (*domain.RuleSuggestion, error) {
	impactJSON, err := json.Marshal(impact)
	if err != nil {
		return nil, fmt.Errorf("marshaling expected impact: %w", err)
	}

	n := len(corrections)
	if n > s.cfg.SampleCases {
		n = s.cfg.SampleCases
	}
	samples := make([]domain.SampleCase, 0, n)
	for _, c := range corrections[:n] {
		samples = append(samples, domain.SampleCase{
			OriginalValue:  c.OriginalValue,
			CorrectedValue: c.CorrectedValue,
		})
	}
	samplesJSON, err := json.Marshal(samples)
	if err != nil {
		return nil, fmt.Errorf("marshaling sample cases: %w", err)
	}

	now := time.Now().UTC()
	patternID := pattern.ID
	return &domain.RuleSuggestion{
		ID:               uuid.New(),
		ForwarderID:      pattern.ForwarderID,
		FieldName:        pattern.FieldName,
		ExtractionType:   rule.Type,
		CurrentPattern:   currentPattern,
		SuggestedPattern: rule.Pattern,
		Confidence:       rule.Confidence,
		Explanation:      rule.Explanation,
		Source:           domain.SourceAutoLearning,
		CorrectionCount:  pattern.OccurrenceCount,
		ExpectedImpact:   impactJSON,
		SampleCases:      samplesJSON,
		Status:           domain.SuggestionPending,
		Priority:         Priority(pattern.OccurrenceCount, rule.Confidence),
		PatternID:        &patternID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// notifyReviewers delivers the new-suggestion notification in the background.
// Notification failures never surface to the pipeline that created the
// suggestion.
func (s *suggestionService) notifyReviewers(suggestion *domain.RuleSuggestion) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		reviewers, err := s.userRepo.ListByRoles(ctx, []domain.UserRole{domain.RoleAdmin, domain.RoleReviewer})
		if err != nil {
			log.Printf("suggestionService: listing reviewers for suggestion %s: %v", suggestion.ID, err)
			return
		}
		if len(reviewers) == 0 {
			return
		}

		n := domain.Notification{
			Title: fmt.Sprintf("New rule suggestion for %s", suggestion.FieldName),
			Message: fmt.Sprintf(
				"A %s rule was inferred for field %q with %.0f%% confidence, based on %d corrections.",
				suggestion.ExtractionType, suggestion.FieldName,
				suggestion.Confidence*100, suggestion.CorrectionCount),
			ActionReference: fmt.Sprintf("%s/suggestions/%s", s.frontendURL, suggestion.ID),
			Priority:        notificationPriority(suggestion.Priority),
		}
		if err := s.notifier.Notify(ctx, n, reviewers); err != nil {
			log.Printf("suggestionService: notifying reviewers for suggestion %s: %v", suggestion.ID, err)
		}
	}()
}

// Priority ranks a suggestion for the review queue. Occurrence volume and
// inference confidence contribute equally, each capped at 50 points.
func Priority(occurrenceCount int, confidence float64) float64 {
	occ := float64(occurrenceCount) / 10
	if occ > 1 {
		occ = 1
	}
	return occ*50 + confidence*50
}

func notificationPriority(priority float64) string {
	if priority >= 75 {
		return "high"
	}
	return "normal"
}

func ruleFromSuggestion(s *domain.RuleSuggestion) *domain.ExtractionRule {
	return &domain.ExtractionRule{
		ID:          uuid.New(),
		ForwarderID: s.ForwarderID,
		FieldName:   s.FieldName,
		RuleType:    s.ExtractionType,
		Pattern:     s.SuggestedPattern,
		IsActive:    true,
	}
}

func validExtractionType(t domain.ExtractionType) bool {
	switch t {
	case domain.ExtractionTypeRegex, domain.ExtractionTypeKeyword,
		domain.ExtractionTypePosition, domain.ExtractionTypeAIPrompt:
		return true
	}
	return false
}
