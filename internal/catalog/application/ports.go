package application

import (
	"context"

	"github.com/freshbasket/storefront/internal/catalog/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	// Get fails with apperr.KindNotFound when no product has the id.
	Get(ctx context.Context, id string) (domain.Product, error)
	// GetMany resolves the given ids; unknown ids are simply absent from the
	// result, letting callers decide whether a dangling reference is an error.
	GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error)
	// Replace clears the catalog and installs the given products. Used by the
	// seeder only.
	Replace(ctx context.Context, products []domain.Product) error
}
