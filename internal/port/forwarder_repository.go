package port

import (
	"context"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// ForwarderRepository persists forwarder master data and recognition patterns.
type ForwarderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Forwarder, error)
	ListActive(ctx context.Context) ([]domain.Forwarder, error)
}
