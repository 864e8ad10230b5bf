package repository

import (
	"context"

	"memorial/internal/domain"
)

// NotificationRepository keeps an audit trail of gateway callbacks.
type NotificationRepository interface {
	// Record persists a received notification and its outcome.
	Record(ctx context.Context, n *domain.PaymentNotification) error
}
