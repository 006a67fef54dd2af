// Package noop provides a Notifier that only logs. It is the default in
// development, where no SES identity is configured.
package noop

import (
	"context"
	"log"

	"freightiq/internal/domain"
	"freightiq/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a Notifier that logs instead of delivering.
func NewNoopNotifier() port.Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(_ context.Context, n domain.Notification, recipients []domain.User) error {
	log.Printf("noopNotifier: %q to %d recipient(s): %s", n.Title, len(recipients), n.Message)
	return nil
}
