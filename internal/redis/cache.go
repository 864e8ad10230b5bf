package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"memorial/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// OrderCacheTTL bounds how stale a cached order can be if an invalidation is lost.
const OrderCacheTTL = 30 * time.Second

const orderCachePrefix = "cache:order:"

// cachedOrder is the JSON form of an order in the cache.
type cachedOrder struct {
	ID               string            `json:"id"`
	Customer         domain.Customer   `json:"customer"`
	Retailer         domain.Retailer   `json:"retailer"`
	Items            []domain.LineItem `json:"items"`
	CartTotal        decimal.Decimal   `json:"cart_total"`
	Commission       decimal.Decimal   `json:"commission"`
	RetailerPayout   decimal.Decimal   `json:"retailer_payout"`
	Status           string            `json:"status"`
	GatewayPaymentID string            `json:"gateway_payment_id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// GetOrder retrieves an order from cache. A miss returns nil, nil.
func (s *CacheStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	data, err := s.client.Get(ctx, orderCachePrefix+orderID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var c cachedOrder
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &domain.Order{
		ID:               c.ID,
		Customer:         c.Customer,
		Retailer:         c.Retailer,
		Items:            c.Items,
		CartTotal:        c.CartTotal,
		Commission:       c.Commission,
		RetailerPayout:   c.RetailerPayout,
		Status:           domain.OrderStatus(c.Status),
		GatewayPaymentID: c.GatewayPaymentID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}, nil
}

// SetOrder stores an order in cache.
func (s *CacheStore) SetOrder(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(cachedOrder{
		ID:               order.ID,
		Customer:         order.Customer,
		Retailer:         order.Retailer,
		Items:            order.Items,
		CartTotal:        order.CartTotal,
		Commission:       order.Commission,
		RetailerPayout:   order.RetailerPayout,
		Status:           string(order.Status),
		GatewayPaymentID: order.GatewayPaymentID,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, orderCachePrefix+order.ID, data, OrderCacheTTL).Err()
}

// InvalidateOrder removes an order from cache.
func (s *CacheStore) InvalidateOrder(ctx context.Context, orderID string) error {
	return s.client.Del(ctx, orderCachePrefix+orderID).Err()
}
