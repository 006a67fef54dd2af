package port

import (
	"context"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// AccuracyRepository reads the aggregated historical accuracy store. The
// store is refreshed by a separate aggregation job.
type AccuracyRepository interface {
	Get(ctx context.Context, forwarderID uuid.UUID, fieldName string) (*domain.FieldAccuracy, error)
	// GetForFields fetches accuracy samples for several fields at once,
	// keyed by field name. Missing fields are simply absent from the map.
	GetForFields(ctx context.Context, forwarderID uuid.UUID, fieldNames []string) (map[string]domain.FieldAccuracy, error)
}
