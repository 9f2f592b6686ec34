package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements run one at a time: the pgx driver's extended protocol does
// not accept multi-statement strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_id         TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		customer_details JSONB NOT NULL,
		items            JSONB NOT NULL,
		total_amount     DOUBLE PRECISION NOT NULL,
		tax_amount       DOUBLE PRECISION NOT NULL,
		payment_status   TEXT NOT NULL,
		payment_method   TEXT NOT NULL,
		payment_details  JSONB,
		order_status     TEXT NOT NULL,
		shipping_method  TEXT NOT NULL DEFAULT 'standard',
		shipping_cost    DOUBLE PRECISION NOT NULL DEFAULT 0,
		tracking_number  TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		order_date       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_date ON orders (user_id, order_date DESC)`,
	`CREATE TABLE IF NOT EXISTS products (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		stock INTEGER NOT NULL CHECK (stock >= 0)
	)`,
}

// Migrate applies the schema. Statements are idempotent; safe to run on
// every boot.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
