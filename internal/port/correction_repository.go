package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// CorrectionRepository persists the append-only correction log.
type CorrectionRepository interface {
	Create(ctx context.Context, c *domain.Correction) error
	// GetByEdit returns the correction carrying this exact edit, keyed by the
	// deduplication identity (document, field, original, corrected).
	GetByEdit(ctx context.Context, documentID uuid.UUID, fieldName, originalValue, correctedValue string) (*domain.Correction, error)
	// LinkPattern attaches a correction to the pattern it was grouped under.
	LinkPattern(ctx context.Context, correctionID, patternID uuid.UUID) error
	// ListByPattern returns corrections linked to a pattern, most recent
	// first, capped at limit.
	ListByPattern(ctx context.Context, patternID uuid.UUID, limit int) ([]domain.Correction, error)
	// ListFieldCorrections returns corrections on a (forwarder, field) pair
	// since the given time, most recent first, capped at limit.
	ListFieldCorrections(ctx context.Context, forwarderID uuid.UUID, fieldName string, since time.Time, limit int) ([]domain.Correction, error)
}
