package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
)

// MockAccuracyRepo is a mock implementation of port.AccuracyRepository.
type MockAccuracyRepo struct {
	mock.Mock
}

func (m *MockAccuracyRepo) Get(ctx context.Context, forwarderID uuid.UUID, fieldName string) (*domain.FieldAccuracy, error) {
	args := m.Called(ctx, forwarderID, fieldName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FieldAccuracy), args.Error(1)
}

func (m *MockAccuracyRepo) GetForFields(ctx context.Context, forwarderID uuid.UUID, fieldNames []string) (map[string]domain.FieldAccuracy, error) {
	args := m.Called(ctx, forwarderID, fieldNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.FieldAccuracy), args.Error(1)
}
