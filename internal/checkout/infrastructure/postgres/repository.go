package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/checkout/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// PlaceWithOutbox runs the whole checkout write set in one transaction:
// order, line snapshot, outbox event, guarded stock decrements and cart
// clearing. The stock guard (stock >= quantity) closes the window where two
// checkouts both passed validation; the loser rolls back entirely instead of
// overselling.
func (r *Repository) PlaceWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, owner_id, subtotal, tax, total, payment_status, payment_ref, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.OwnerID, o.Subtotal, o.Tax, o.Total, o.PaymentStatus, o.PaymentRef, o.CreatedAt)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, l := range o.Lines {
		batch.Queue(`INSERT INTO order_lines (order_id, product_id, name, price, quantity, position)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, l.ProductID, l.Name, l.Price, l.Quantity, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	for _, l := range o.Lines {
		ct, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id=$1 AND stock >= $2`,
			l.ProductID, l.Quantity)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			var stock int
			err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1`, l.ProductID).Scan(&stock)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.New(apperr.KindProductGone, "one or more products no longer exist")
			}
			if err != nil {
				return err
			}
			return apperr.Newf(apperr.KindInsufficientStock,
				"insufficient stock for %s, only %d available", l.Name, stock)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE owner_id=$1`, o.OwnerID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		"order", o.ID, eventType, payload, map[string]string{"source": "storefront"}, traceparent)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, owner_id, subtotal, tax, total, payment_status, payment_ref, created_at
		FROM orders WHERE owner_id=$1 ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	index := map[string]int{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.Subtotal, &o.Tax, &o.Total, &o.PaymentStatus, &o.PaymentRef, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	lineRows, err := r.pool.Query(ctx, `SELECT order_id, product_id, name, price, quantity
		FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID string
		var l domain.OrderLine
		if err := lineRows.Scan(&orderID, &l.ProductID, &l.Name, &l.Price, &l.Quantity); err != nil {
			return nil, err
		}
		i := index[orderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	return orders, lineRows.Err()
}
