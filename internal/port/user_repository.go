package port

import (
	"context"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// UserRepository persists platform users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByRoles returns active users holding any of the given roles.
	ListByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error)
}
