package port

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HistoryRepository reads the historical extraction store written by the
// extraction pipeline. Simulation uses it to size a rule's blast radius.
type HistoryRepository interface {
	// CountAffectedDocuments counts documents for a forwarder that carried
	// the field since the given time.
	CountAffectedDocuments(ctx context.Context, forwarderID uuid.UUID, fieldName string, since time.Time) (int, error)
}
