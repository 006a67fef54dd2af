package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
	"freightiq/internal/service"
)

// MockSuggestionService is a mock implementation of service.SuggestionService.
type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) GenerateFromPattern(ctx context.Context, patternID uuid.UUID) (*domain.RuleSuggestion, error) {
	args := m.Called(ctx, patternID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RuleSuggestion), args.Error(1)
}

func (m *MockSuggestionService) CreateManual(ctx context.Context, userID uuid.UUID, input service.ManualSuggestionInput) (*domain.RuleSuggestion, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RuleSuggestion), args.Error(1)
}

func (m *MockSuggestionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RuleSuggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RuleSuggestion), args.Error(1)
}

func (m *MockSuggestionService) List(ctx context.Context, status domain.SuggestionStatus, page, pageSize int) (*service.SuggestionPage, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SuggestionPage), args.Error(1)
}

func (m *MockSuggestionService) Review(ctx context.Context, reviewerID uuid.UUID, suggestionID uuid.UUID, input service.ReviewInput) (*domain.RuleSuggestion, error) {
	args := m.Called(ctx, reviewerID, suggestionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RuleSuggestion), args.Error(1)
}
