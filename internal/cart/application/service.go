package application

import (
	"context"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/cart/domain"
)

// Service reconciles cart mutations against the catalog: each product
// appears on at most one line, and a line's quantity never exceeds known
// stock at the moment it is written. Stock may go stale afterwards; checkout
// re-validates authoritatively.
type Service struct {
	carts   CartRepository
	catalog ProductCatalog
}

func NewService(carts CartRepository, catalog ProductCatalog) *Service {
	return &Service{carts: carts, catalog: catalog}
}

// AddLine merges qty units of productID into the owner's cart and returns
// the reconciled view.
func (s *Service) AddLine(ctx context.Context, ownerID, productID string, qty int) (domain.View, error) {
	if productID == "" || qty < 1 {
		return domain.View{}, apperr.New(apperr.KindInvalidArgument, "invalid productId or quantity")
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return domain.View{}, err
	}

	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return domain.View{}, apperr.Wrap(apperr.KindInternal, "loading cart", err)
	}

	merged := cart.Quantity(productID) + qty
	if product.Stock < merged {
		return domain.View{}, apperr.Newf(apperr.KindInsufficientStock,
			"insufficient stock for %s, only %d available", product.Name, product.Stock)
	}

	cart.Merge(productID, qty)
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.View{}, apperr.Wrap(apperr.KindInternal, "saving cart", err)
	}
	return s.resolve(ctx, cart)
}

// RemoveLine deletes the line for productID from the owner's cart.
func (s *Service) RemoveLine(ctx context.Context, ownerID, productID string) (domain.View, error) {
	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return domain.View{}, apperr.Wrap(apperr.KindInternal, "loading cart", err)
	}

	if !cart.Remove(productID) {
		return domain.View{}, apperr.New(apperr.KindNotFound, "item not found in cart")
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.View{}, apperr.Wrap(apperr.KindInternal, "saving cart", err)
	}
	return s.resolve(ctx, cart)
}

// View returns the owner's cart with product references resolved. Owners
// without a cart get an empty view.
func (s *Service) View(ctx context.Context, ownerID string) (domain.View, error) {
	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return domain.View{}, apperr.Wrap(apperr.KindInternal, "loading cart", err)
	}
	return s.resolve(ctx, cart)
}

// resolve builds the display view. Lines whose product has vanished are
// filtered from the view only; the persisted cart keeps them until checkout
// or an explicit removal decides their fate.
func (s *Service) resolve(ctx context.Context, cart domain.Cart) (domain.View, error) {
	if len(cart.Lines) == 0 {
		return domain.View{}, nil
	}

	ids := make([]string, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return domain.View{}, apperr.Wrap(apperr.KindInternal, "resolving products", err)
	}

	view := domain.View{Lines: make([]domain.ResolvedLine, 0, len(cart.Lines))}
	for _, l := range cart.Lines {
		product, ok := products[l.ProductID]
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, domain.ResolvedLine{Product: product, Quantity: l.Quantity})
	}
	return view, nil
}
