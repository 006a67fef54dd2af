package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
)

// MockForwarderRepo is a mock implementation of port.ForwarderRepository.
type MockForwarderRepo struct {
	mock.Mock
}

func (m *MockForwarderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Forwarder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Forwarder), args.Error(1)
}

func (m *MockForwarderRepo) ListActive(ctx context.Context) ([]domain.Forwarder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Forwarder), args.Error(1)
}
