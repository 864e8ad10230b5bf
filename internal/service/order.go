package service

import (
	"context"
	"log/slog"

	"memorial/internal/domain"
	"memorial/internal/repository"
)

// OrderCache is a read-through cache for settled orders. A miss returns nil, nil.
type OrderCache interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	SetOrder(ctx context.Context, order *domain.Order) error
	InvalidateOrder(ctx context.Context, id string) error
}

// OrderService serves order lookups for the storefront's return page.
type OrderService struct {
	orderRepo repository.OrderRepository
	cache     OrderCache
}

// NewOrderService creates a new OrderService. cache may be nil.
func NewOrderService(orderRepo repository.OrderRepository, cache OrderCache) *OrderService {
	return &OrderService{orderRepo: orderRepo, cache: cache}
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidOrderID
	}

	if s.cache != nil {
		cached, err := s.cache.GetOrder(ctx, id)
		if err != nil {
			slog.Warn("[Order] cache read failed", "order_id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A pending order can still be settled by a notification, so only
	// terminal orders are cached.
	if s.cache != nil && order.Status.IsTerminal() {
		if err := s.cache.SetOrder(ctx, order); err != nil {
			slog.Warn("[Order] cache write failed", "order_id", id, "error", err)
		}
	}

	return order, nil
}
