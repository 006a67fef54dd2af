package port

import (
	"context"

	"github.com/google/uuid"

	"freightiq/internal/domain"
)

// SuggestionRepository persists rule suggestions.
type SuggestionRepository interface {
	// Create inserts a suggestion. A second open suggestion for the same
	// pattern violates the storage-level uniqueness constraint and fails
	// with ErrDuplicateSuggestion.
	Create(ctx context.Context, s *domain.RuleSuggestion) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RuleSuggestion, error)
	// ListByStatus returns suggestions in the given status ordered by
	// priority descending.
	ListByStatus(ctx context.Context, status domain.SuggestionStatus, offset, limit int) ([]domain.RuleSuggestion, int, error)
	// UpdateReview persists a review transition. The row is only updated
	// when it is still in the from status; otherwise the update fails with
	// ErrInvalidStateTransition and the record is left untouched.
	UpdateReview(ctx context.Context, s *domain.RuleSuggestion, from domain.SuggestionStatus) error
}
