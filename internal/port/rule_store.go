package port

import (
	"context"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// RuleStore is the production extraction-rule store. It is shared
// infrastructure with its own versioning; this service only reads the current
// rule and applies the single idempotent upsert an implemented suggestion
// implies.
type RuleStore interface {
	GetActive(ctx context.Context, forwarderID uuid.UUID, fieldName string) (*domain.ExtractionRule, error)
	// Upsert creates or replaces the rule keyed by (forwarder, field),
	// bumping its version.
	Upsert(ctx context.Context, rule *domain.ExtractionRule) error
}
