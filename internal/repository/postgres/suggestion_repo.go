package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freightiq/internal/domain"
	"freightiq/internal/port"
)

type suggestionRepo struct {
	db *sqlx.DB
}

// NewSuggestionRepo creates a new PostgreSQL-backed SuggestionRepository.
func NewSuggestionRepo(db *sqlx.DB) port.SuggestionRepository {
	return &suggestionRepo{db: db}
}

func (r *suggestionRepo) Create(ctx context.Context, s *domain.RuleSuggestion) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `INSERT INTO rule_suggestions (
		id, forwarder_id, field_name, extraction_type,
		current_pattern, suggested_pattern, confidence, explanation,
		source, correction_count, expected_impact, sample_cases,
		status, priority, pattern_id,
		reviewed_by, reviewed_at, review_reason,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11, $12,
		$13, $14, $15,
		$16, $17, $18,
		$19, $20
	)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ForwarderID, s.FieldName, s.ExtractionType,
		s.CurrentPattern, s.SuggestedPattern, s.Confidence, s.Explanation,
		s.Source, s.CorrectionCount, s.ExpectedImpact, s.SampleCases,
		s.Status, s.Priority, s.PatternID,
		s.ReviewedBy, s.ReviewedAt, s.ReviewReason,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "pattern_id") {
			return domain.ErrDuplicateSuggestion
		}
		return fmt.Errorf("suggestionRepo.Create: %w", err)
	}
	return nil
}

func (r *suggestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RuleSuggestion, error) {
	var s domain.RuleSuggestion
	err := r.db.GetContext(ctx, &s,
		"SELECT * FROM rule_suggestions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("suggestionRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *suggestionRepo) ListByStatus(ctx context.Context, status domain.SuggestionStatus, offset, limit int) ([]domain.RuleSuggestion, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM rule_suggestions WHERE status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("suggestionRepo.ListByStatus count: %w", err)
	}

	var suggestions []domain.RuleSuggestion
	err = r.db.SelectContext(ctx, &suggestions,
		`SELECT * FROM rule_suggestions WHERE status = $1
		 ORDER BY priority DESC, created_at ASC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("suggestionRepo.ListByStatus: %w", err)
	}
	return suggestions, total, nil
}

// UpdateReview guards the transition with the expected current status in the
// WHERE clause, so a suggestion that moved on since it was read is left
// untouched.
func (r *suggestionRepo) UpdateReview(ctx context.Context, s *domain.RuleSuggestion, from domain.SuggestionStatus) error {
	s.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE rule_suggestions SET
			status = $1, reviewed_by = $2, reviewed_at = $3,
			review_reason = $4, updated_at = $5
		 WHERE id = $6 AND status = $7`,
		s.Status, s.ReviewedBy, s.ReviewedAt,
		s.ReviewReason, s.UpdatedAt,
		s.ID, from)
	if err != nil {
		return fmt.Errorf("suggestionRepo.UpdateReview: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}
