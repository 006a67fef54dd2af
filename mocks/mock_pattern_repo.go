package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
)

// MockPatternRepo is a mock implementation of port.PatternRepository.
type MockPatternRepo struct {
	mock.Mock
}

func (m *MockPatternRepo) RecordOccurrence(ctx context.Context, p *domain.CorrectionPattern, candidateThreshold int) (*domain.CorrectionPattern, error) {
	args := m.Called(ctx, p, candidateThreshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorrectionPattern), args.Error(1)
}

func (m *MockPatternRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CorrectionPattern, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorrectionPattern), args.Error(1)
}

func (m *MockPatternRepo) GetByKey(ctx context.Context, patternKey string) (*domain.CorrectionPattern, error) {
	args := m.Called(ctx, patternKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorrectionPattern), args.Error(1)
}

func (m *MockPatternRepo) ListCandidates(ctx context.Context, limit int) ([]domain.CorrectionPattern, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CorrectionPattern), args.Error(1)
}

func (m *MockPatternRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.PatternStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
