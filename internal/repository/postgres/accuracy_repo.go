package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freightiq/internal/domain"
	"freightiq/internal/port"
)

type accuracyRepo struct {
	db *sqlx.DB
}

// NewAccuracyRepo creates a new PostgreSQL-backed AccuracyRepository.
func NewAccuracyRepo(db *sqlx.DB) port.AccuracyRepository {
	return &accuracyRepo{db: db}
}

func (r *accuracyRepo) Get(ctx context.Context, forwarderID uuid.UUID, fieldName string) (*domain.FieldAccuracy, error) {
	var fa domain.FieldAccuracy
	err := r.db.GetContext(ctx, &fa,
		"SELECT * FROM field_accuracy WHERE forwarder_id = $1 AND field_name = $2",
		forwarderID, fieldName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("accuracyRepo.Get: %w", err)
	}
	return &fa, nil
}

func (r *accuracyRepo) GetForFields(ctx context.Context, forwarderID uuid.UUID, fieldNames []string) (map[string]domain.FieldAccuracy, error) {
	if len(fieldNames) == 0 {
		return map[string]domain.FieldAccuracy{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM field_accuracy WHERE forwarder_id = ? AND field_name IN (?)",
		forwarderID, fieldNames)
	if err != nil {
		return nil, fmt.Errorf("accuracyRepo.GetForFields: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []domain.FieldAccuracy
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("accuracyRepo.GetForFields: %w", err)
	}

	out := make(map[string]domain.FieldAccuracy, len(rows))
	for _, fa := range rows {
		out[fa.FieldName] = fa
	}
	return out, nil
}
