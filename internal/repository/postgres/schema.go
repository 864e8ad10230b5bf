package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		customer JSONB NOT NULL,
		retailer_id TEXT NOT NULL,
		retailer_name TEXT NOT NULL DEFAULT '',
		retailer_email TEXT NOT NULL,
		items JSONB NOT NULL,
		cart_total NUMERIC(12, 2) NOT NULL,
		commission NUMERIC(12, 2) NOT NULL,
		retailer_payout NUMERIC(12, 2) NOT NULL,
		status TEXT NOT NULL,
		gateway_payment_id TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id TEXT PRIMARY KEY,
		retailer_id TEXT NOT NULL,
		retailer_name TEXT NOT NULL DEFAULT '',
		retailer_email TEXT NOT NULL,
		amount NUMERIC(12, 2) NOT NULL,
		frequency INT NOT NULL,
		cycles INT NOT NULL,
		billing_date DATE NOT NULL,
		status TEXT NOT NULL,
		gateway_token TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payment_notifications (
		id TEXT PRIMARY KEY,
		reference TEXT NOT NULL,
		gateway_payment_id TEXT NOT NULL DEFAULT '',
		payment_status TEXT NOT NULL DEFAULT '',
		raw_body TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		received_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS payment_notifications_reference_idx ON payment_notifications (reference)`,
}

// EnsureSchema creates the tables this service owns if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
