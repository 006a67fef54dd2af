package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification, recipients []domain.User) error {
	args := m.Called(ctx, n, recipients)
	return args.Error(0)
}
