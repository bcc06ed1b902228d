// Package postgres owns pool construction and schema bootstrap for the
// storefront tables.
package postgres

import (
	"context"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds a pool whose connections scan NUMERIC columns into
// shopspring decimals, so monetary values never pass through float64.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		stock       INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		image       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_lines (
		owner_id   TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity   INT NOT NULL CHECK (quantity >= 1),
		position   INT NOT NULL DEFAULT 0,
		PRIMARY KEY (owner_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id             TEXT PRIMARY KEY,
		owner_id       TEXT NOT NULL,
		subtotal       NUMERIC(12,2) NOT NULL CHECK (subtotal >= 0),
		tax            NUMERIC(12,2) NOT NULL CHECK (tax >= 0),
		total          NUMERIC(12,2) NOT NULL CHECK (total >= 0),
		payment_status TEXT NOT NULL,
		payment_ref    TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_owner_idx ON orders (owner_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id   TEXT NOT NULL REFERENCES orders(id),
		product_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		price      NUMERIC(12,2) NOT NULL,
		quantity   INT NOT NULL CHECK (quantity >= 1),
		position   INT NOT NULL,
		PRIMARY KEY (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS outbox (
		id             BIGSERIAL PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		type           TEXT NOT NULL,
		payload        BYTEA NOT NULL,
		headers        JSONB NOT NULL DEFAULT '{}',
		traceparent    TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'pending',
		relay_id       TEXT,
		lease_until    TIMESTAMPTZ,
		retry_count    INT NOT NULL DEFAULT 0,
		last_error     TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates any missing storefront tables. Statements are
// idempotent so the binaries can run it unconditionally at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
