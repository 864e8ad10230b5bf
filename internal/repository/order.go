package repository

import (
	"context"

	"memorial/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// UpdateStatusIfPending moves a pending order to status, recording the
	// gateway reference in the same write. Returns false without error when
	// the order exists but is no longer pending.
	UpdateStatusIfPending(ctx context.Context, id string, status domain.OrderStatus, gatewayRef string) (bool, error)
}
