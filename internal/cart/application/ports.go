package application

import (
	"context"

	"github.com/freshbasket/storefront/internal/cart/domain"
	catalog "github.com/freshbasket/storefront/internal/catalog/domain"
)

type CartRepository interface {
	// Get returns the owner's cart. An owner without persisted lines gets an
	// empty cart, not an error.
	Get(ctx context.Context, ownerID string) (domain.Cart, error)
	// Save replaces the owner's persisted lines with the cart's current
	// lines. Plain read-modify-write: concurrent saves for the same owner are
	// last-write-wins, which checkout compensates for by re-validating stock.
	Save(ctx context.Context, cart domain.Cart) error
}

type ProductCatalog interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}
