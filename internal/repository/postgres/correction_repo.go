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

type correctionRepo struct {
	db *sqlx.DB
}

// NewCorrectionRepo creates a new PostgreSQL-backed CorrectionRepository.
func NewCorrectionRepo(db *sqlx.DB) port.CorrectionRepository {
	return &correctionRepo{db: db}
}

func (r *correctionRepo) Create(ctx context.Context, c *domain.Correction) error {
	c.CreatedAt = time.Now().UTC()

	query := `INSERT INTO corrections (
		id, forwarder_id, document_id, field_name,
		original_value, corrected_value, context, pattern_id,
		created_by, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ForwarderID, c.DocumentID, c.FieldName,
		c.OriginalValue, c.CorrectedValue, c.Context, c.PatternID,
		c.CreatedBy, c.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateCorrection
		}
		return fmt.Errorf("correctionRepo.Create: %w", err)
	}
	return nil
}

func (r *correctionRepo) GetByEdit(ctx context.Context, documentID uuid.UUID, fieldName, originalValue, correctedValue string) (*domain.Correction, error) {
	var c domain.Correction
	err := r.db.GetContext(ctx, &c,
		`SELECT * FROM corrections
		 WHERE document_id = $1 AND field_name = $2
		   AND original_value = $3 AND corrected_value = $4`,
		documentID, fieldName, originalValue, correctedValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("correctionRepo.GetByEdit: %w", err)
	}
	return &c, nil
}

func (r *correctionRepo) LinkPattern(ctx context.Context, correctionID, patternID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE corrections SET pattern_id = $1 WHERE id = $2", patternID, correctionID)
	if err != nil {
		return fmt.Errorf("correctionRepo.LinkPattern: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *correctionRepo) ListByPattern(ctx context.Context, patternID uuid.UUID, limit int) ([]domain.Correction, error) {
	var corrections []domain.Correction
	err := r.db.SelectContext(ctx, &corrections,
		`SELECT * FROM corrections WHERE pattern_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		patternID, limit)
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.ListByPattern: %w", err)
	}
	return corrections, nil
}

func (r *correctionRepo) ListFieldCorrections(ctx context.Context, forwarderID uuid.UUID, fieldName string, since time.Time, limit int) ([]domain.Correction, error) {
	var corrections []domain.Correction
	err := r.db.SelectContext(ctx, &corrections,
		`SELECT * FROM corrections
		 WHERE forwarder_id = $1 AND field_name = $2 AND created_at >= $3
		 ORDER BY created_at DESC LIMIT $4`,
		forwarderID, fieldName, since, limit)
	if err != nil {
		return nil, fmt.Errorf("correctionRepo.ListFieldCorrections: %w", err)
	}
	return corrections, nil
}
