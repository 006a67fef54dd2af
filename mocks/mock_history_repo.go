package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockHistoryRepo is a mock implementation of port.HistoryRepository.
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) CountAffectedDocuments(ctx context.Context, forwarderID uuid.UUID, fieldName string, since time.Time) (int, error) {
	args := m.Called(ctx, forwarderID, fieldName, since)
	return args.Int(0), args.Error(1)
}
