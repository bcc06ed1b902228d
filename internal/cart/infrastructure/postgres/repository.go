package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freshbasket/storefront/internal/cart/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity FROM cart_lines WHERE owner_id=$1 ORDER BY position`, ownerID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer rows.Close()

	cart := domain.Cart{OwnerID: ownerID}
	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return domain.Cart{}, err
		}
		cart.Lines = append(cart.Lines, l)
	}
	return cart, rows.Err()
}

func (r *Repository) Save(ctx context.Context, cart domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE owner_id=$1`, cart.OwnerID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, l := range cart.Lines {
		batch.Queue(`INSERT INTO cart_lines (owner_id, product_id, quantity, position) VALUES ($1,$2,$3,$4)`,
			cart.OwnerID, l.ProductID, l.Quantity, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
