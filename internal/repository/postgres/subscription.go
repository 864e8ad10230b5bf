package postgres

import (
	"context"
	"database/sql"
	"errors"

	"memorial/internal/domain"
	"memorial/internal/repository"
)

// SubscriptionRepository is a PostgreSQL implementation of repository.SubscriptionRepository.
type SubscriptionRepository struct {
	q Querier
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository.
func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{q: db}
}

// Create persists a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, retailer_id, retailer_name, retailer_email, amount, frequency,
			cycles, billing_date, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		sub.ID,
		sub.Retailer.ID,
		sub.Retailer.Name,
		sub.Retailer.Email,
		sub.Amount,
		sub.Frequency,
		sub.Cycles,
		sub.BillingDate,
		sub.Status,
		sub.CreatedAt,
		sub.UpdatedAt,
	)

	return err
}

// GetByID retrieves a subscription by ID.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `
		SELECT id, retailer_id, retailer_name, retailer_email, amount, frequency,
			cycles, billing_date, status, gateway_token, created_at, updated_at
		FROM subscriptions WHERE id = $1
	`

	var sub domain.Subscription
	var token sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&sub.ID,
		&sub.Retailer.ID,
		&sub.Retailer.Name,
		&sub.Retailer.Email,
		&sub.Amount,
		&sub.Frequency,
		&sub.Cycles,
		&sub.BillingDate,
		&sub.Status,
		&token,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if token.Valid {
		sub.GatewayToken = token.String
	}

	return &sub, nil
}

// TransitionStatus moves a subscription from one status to another.
func (r *SubscriptionRepository) TransitionStatus(ctx context.Context, id string, from, to domain.SubscriptionStatus, token string) (bool, error) {
	query := `
		UPDATE subscriptions
		SET status = $1, gateway_token = COALESCE(NULLIF($2, ''), gateway_token), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query, to, token, id, from)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// Ensure SubscriptionRepository implements repository.SubscriptionRepository.
var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
