package postgres

import (
	"context"
	"database/sql"

	"memorial/internal/domain"
	"memorial/internal/repository"
)

// NotificationRepository is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// Record persists a received notification.
func (r *NotificationRepository) Record(ctx context.Context, n *domain.PaymentNotification) error {
	query := `
		INSERT INTO payment_notifications (
			id, reference, gateway_payment_id, payment_status, raw_body, outcome, detail, received_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		n.ID,
		n.Reference,
		n.GatewayPaymentID,
		n.PaymentStatus,
		n.RawBody,
		n.Outcome,
		n.Detail,
		n.ReceivedAt,
	)

	return err
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
