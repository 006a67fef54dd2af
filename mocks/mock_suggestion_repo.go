package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
)

// MockSuggestionRepo is a mock implementation of port.SuggestionRepository.
type MockSuggestionRepo struct {
	mock.Mock
}

func (m *MockSuggestionRepo) Create(ctx context.Context, s *domain.RuleSuggestion) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSuggestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RuleSuggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RuleSuggestion), args.Error(1)
}

func (m *MockSuggestionRepo) ListByStatus(ctx context.Context, status domain.SuggestionStatus, offset, limit int) ([]domain.RuleSuggestion, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RuleSuggestion), args.Int(1), args.Error(2)
}

func (m *MockSuggestionRepo) UpdateReview(ctx context.Context, s *domain.RuleSuggestion, from domain.SuggestionStatus) error {
	args := m.Called(ctx, s, from)
	return args.Error(0)
}
