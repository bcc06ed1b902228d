package application

import (
	"context"

	cart "github.com/freshbasket/storefront/internal/cart/domain"
	catalog "github.com/freshbasket/storefront/internal/catalog/domain"
	"github.com/freshbasket/storefront/internal/checkout/domain"
)

type OrderRepository interface {
	// PlaceWithOutbox persists the order and its line snapshot, writes the
	// outbox event, deducts stock per line and clears the owner's cart, all
	// in one transaction, so a failed stock guard rolls everything back.
	// The stock guard failing surfaces as apperr.KindInsufficientStock or
	// apperr.KindProductGone.
	PlaceWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error
	// ListByOwner returns the owner's orders, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
}

type CartReader interface {
	Get(ctx context.Context, ownerID string) (cart.Cart, error)
}

type ProductCatalog interface {
	GetMany(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// PaymentReferences makes payment references single-use so a resubmitted
// checkout cannot create two orders from one payment.
type PaymentReferences interface {
	ClaimPayment(ctx context.Context, ref string) (bool, error)
	// ReleasePayment frees a claimed reference when the checkout it gated was
	// rolled back, so the caller can legitimately resubmit.
	ReleasePayment(ctx context.Context, ref string) error
}
