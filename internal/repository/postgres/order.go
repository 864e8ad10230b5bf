package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"memorial/internal/domain"
	"memorial/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, customer, retailer_id, retailer_name, retailer_email, items,
			cart_total, commission, retailer_payout, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	_, err = r.q.ExecContext(ctx, query,
		order.ID,
		string(customer),
		order.Retailer.ID,
		order.Retailer.Name,
		order.Retailer.Email,
		string(items),
		order.CartTotal,
		order.Commission,
		order.RetailerPayout,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, customer, retailer_id, retailer_name, retailer_email, items,
			cart_total, commission, retailer_payout, status, gateway_payment_id,
			created_at, updated_at
		FROM orders WHERE id = $1
	`

	var order domain.Order
	var customer, items []byte
	var gatewayPaymentID sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&customer,
		&order.Retailer.ID,
		&order.Retailer.Name,
		&order.Retailer.Email,
		&items,
		&order.CartTotal,
		&order.Commission,
		&order.RetailerPayout,
		&order.Status,
		&gatewayPaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if gatewayPaymentID.Valid {
		order.GatewayPaymentID = gatewayPaymentID.String
	}

	return &order, nil
}

// UpdateStatusIfPending moves a pending order to status in a single
// conditional write, so two concurrent callbacks cannot both apply.
func (r *OrderRepository) UpdateStatusIfPending(ctx context.Context, id string, status domain.OrderStatus, gatewayRef string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, gateway_payment_id = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query, status, gatewayRef, id, domain.OrderStatusPending)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rowsAffected == 1 {
		return true, nil
	}

	// Nothing changed: either the order moved on already or it never existed.
	var exists bool
	err = r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}

	return false, nil
}

// Ensure OrderRepository implements repository.OrderRepository.
var _ repository.OrderRepository = (*OrderRepository)(nil)
