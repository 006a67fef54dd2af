package port

import (
	"context"

	"freightiq/internal/domain"
)

// Notifier delivers notifications to reviewers. Delivery is fire-and-forget
// from the caller's perspective: failures are logged, never propagated into
// the transaction that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification, recipients []domain.User) error
}
