package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freightiq/internal/domain"
	"freightiq/internal/port"
)

type patternRepo struct {
	db *sqlx.DB
}

// NewPatternRepo creates a new PostgreSQL-backed PatternRepository.
func NewPatternRepo(db *sqlx.DB) port.PatternRepository {
	return &patternRepo{db: db}
}

// RecordOccurrence performs the upsert-and-increment in a single statement so
// concurrent corrections for the same pattern key can never lose an update.
// The OBSERVED -> CANDIDATE promotion happens inside the same statement the
// first time the count reaches the threshold.
func (r *patternRepo) RecordOccurrence(ctx context.Context, p *domain.CorrectionPattern, candidateThreshold int) (*domain.CorrectionPattern, error) {
	now := time.Now().UTC()

	query := `INSERT INTO correction_patterns (
		id, forwarder_id, field_name, pattern_key, value_shape,
		occurrence_count, status, first_seen_at, last_seen_at
	) VALUES ($1, $2, $3, $4, $5, 1, $6, $7, $7)
	ON CONFLICT (pattern_key) DO UPDATE SET
		occurrence_count = correction_patterns.occurrence_count + 1,
		last_seen_at = EXCLUDED.last_seen_at,
		status = CASE
			WHEN correction_patterns.status = $6
				AND correction_patterns.occurrence_count + 1 >= $8
			THEN $9
			ELSE correction_patterns.status
		END
	RETURNING *`

	var out domain.CorrectionPattern
	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.ForwarderID, p.FieldName, p.PatternKey, p.ValueShape,
		domain.PatternObserved, now, candidateThreshold, domain.PatternCandidate,
	).StructScan(&out)
	if err != nil {
		return nil, fmt.Errorf("patternRepo.RecordOccurrence: %w", err)
	}
	return &out, nil
}

func (r *patternRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CorrectionPattern, error) {
	var p domain.CorrectionPattern
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM correction_patterns WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPatternNotFound
		}
		return nil, fmt.Errorf("patternRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *patternRepo) GetByKey(ctx context.Context, patternKey string) (*domain.CorrectionPattern, error) {
	var p domain.CorrectionPattern
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM correction_patterns WHERE pattern_key = $1", patternKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPatternNotFound
		}
		return nil, fmt.Errorf("patternRepo.GetByKey: %w", err)
	}
	return &p, nil
}

func (r *patternRepo) ListCandidates(ctx context.Context, limit int) ([]domain.CorrectionPattern, error) {
	var patterns []domain.CorrectionPattern
	err := r.db.SelectContext(ctx, &patterns,
		`SELECT p.* FROM correction_patterns p
		 WHERE p.status = $1
		   AND NOT EXISTS (
			SELECT 1 FROM rule_suggestions s
			WHERE s.pattern_id = p.id AND s.status <> $2
		   )
		 ORDER BY p.occurrence_count DESC, p.last_seen_at DESC
		 LIMIT $3`,
		domain.PatternCandidate, domain.SuggestionRejected, limit)
	if err != nil {
		return nil, fmt.Errorf("patternRepo.ListCandidates: %w", err)
	}
	return patterns, nil
}

func (r *patternRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.PatternStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE correction_patterns SET status = $1 WHERE id = $2 AND status = $3",
		to, id, from)
	if err != nil {
		return fmt.Errorf("patternRepo.SetStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPatternNotFound
	}
	return nil
}
