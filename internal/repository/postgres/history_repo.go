package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freightiq/internal/port"
)

type historyRepo struct {
	db *sqlx.DB
}

// NewHistoryRepo creates a new PostgreSQL-backed HistoryRepository over the
// field_extractions table written by the extraction pipeline.
func NewHistoryRepo(db *sqlx.DB) port.HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) CountAffectedDocuments(ctx context.Context, forwarderID uuid.UUID, fieldName string, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(DISTINCT document_id) FROM field_extractions
		 WHERE forwarder_id = $1 AND field_name = $2 AND extracted_at >= $3`,
		forwarderID, fieldName, since)
	if err != nil {
		return 0, fmt.Errorf("historyRepo.CountAffectedDocuments: %w", err)
	}
	return count, nil
}
