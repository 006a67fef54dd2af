package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"freightiq/internal/domain"
)

// MockRuleStore is a mock implementation of port.RuleStore.
type MockRuleStore struct {
	mock.Mock
}

func (m *MockRuleStore) GetActive(ctx context.Context, forwarderID uuid.UUID, fieldName string) (*domain.ExtractionRule, error) {
	args := m.Called(ctx, forwarderID, fieldName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRule), args.Error(1)
}

func (m *MockRuleStore) Upsert(ctx context.Context, rule *domain.ExtractionRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}
