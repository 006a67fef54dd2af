package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
)

// MockCorrectionRepo is a mock implementation of port.CorrectionRepository.
type MockCorrectionRepo struct {
	mock.Mock
}

func (m *MockCorrectionRepo) Create(ctx context.Context, c *domain.Correction) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCorrectionRepo) GetByEdit(ctx context.Context, documentID uuid.UUID, fieldName, originalValue, correctedValue string) (*domain.Correction, error) {
	args := m.Called(ctx, documentID, fieldName, originalValue, correctedValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Correction), args.Error(1)
}

func (m *MockCorrectionRepo) LinkPattern(ctx context.Context, correctionID, patternID uuid.UUID) error {
	args := m.Called(ctx, correctionID, patternID)
	return args.Error(0)
}

func (m *MockCorrectionRepo) ListByPattern(ctx context.Context, patternID uuid.UUID, limit int) ([]domain.Correction, error) {
	args := m.Called(ctx, patternID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Correction), args.Error(1)
}

func (m *MockCorrectionRepo) ListFieldCorrections(ctx context.Context, forwarderID uuid.UUID, fieldName string, since time.Time, limit int) ([]domain.Correction, error) {
	args := m.Called(ctx, forwarderID, fieldName, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Correction), args.Error(1)
}
