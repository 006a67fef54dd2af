package service

import (
	"context"
	"fmt"

	"freightiq/internal/identifier"
	"freightiq/internal/port"
)

// IdentifyInput is the DTO for forwarder identification requests.
type IdentifyInput struct {
	Text string `json:"text" binding:"required"`
}

// ForwarderService identifies which forwarder a document belongs to.
type ForwarderService interface {
	// Identify scores the OCR text against every active forwarder's
	// recognition patterns and returns the best match.
	Identify(ctx context.Context, input IdentifyInput) (*identifier.Result, error)
}

type forwarderService struct {
	forwarderRepo port.ForwarderRepository
}

// NewForwarderService creates a new ForwarderService implementation.
func NewForwarderService(forwarderRepo port.ForwarderRepository) ForwarderService {
	return &forwarderService{forwarderRepo: forwarderRepo}
}

func (s *forwarderService) Identify(ctx context.Context, input IdentifyInput) (*identifier.Result, error) {
	forwarders, err := s.forwarderRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("forwarder.Identify: %w", err)
	}

	result := identifier.NewMatcher(forwarders).Identify(input.Text)
	return &result, nil
}
