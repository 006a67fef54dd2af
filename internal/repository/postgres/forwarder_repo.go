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

type forwarderRepo struct {
	db *sqlx.DB
}

// NewForwarderRepo creates a new PostgreSQL-backed ForwarderRepository.
func NewForwarderRepo(db *sqlx.DB) port.ForwarderRepository {
	return &forwarderRepo{db: db}
}

func (r *forwarderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Forwarder, error) {
	var f domain.Forwarder
	err := r.db.GetContext(ctx, &f, "SELECT * FROM forwarders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrForwarderNotFound
		}
		return nil, fmt.Errorf("forwarderRepo.GetByID: %w", err)
	}
	return &f, nil
}

func (r *forwarderRepo) ListActive(ctx context.Context) ([]domain.Forwarder, error) {
	var forwarders []domain.Forwarder
	err := r.db.SelectContext(ctx, &forwarders,
		"SELECT * FROM forwarders WHERE is_active = TRUE ORDER BY priority DESC, code")
	if err != nil {
		return nil, fmt.Errorf("forwarderRepo.ListActive: %w", err)
	}
	return forwarders, nil
}
