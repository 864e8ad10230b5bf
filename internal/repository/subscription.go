package repository

import (
	"context"

	"memorial/internal/domain"
)

// SubscriptionRepository defines the persistence operations for subscriptions.
type SubscriptionRepository interface {
	// Create persists a new subscription.
	Create(ctx context.Context, sub *domain.Subscription) error

	// GetByID retrieves a subscription by ID.
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)

	// TransitionStatus moves a subscription from one status to another in a
	// single conditional write. An empty token leaves the stored token untouched.
	TransitionStatus(ctx context.Context, id string, from, to domain.SubscriptionStatus, token string) (bool, error)
}
