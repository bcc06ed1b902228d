package application

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/checkout/domain"
)

// Service is the checkout engine: it converts a cart into an immutable order,
// deducting stock and clearing the cart on the way. Validation walks the cart
// in line order and the first failure aborts the whole attempt; nothing
// partial is ever persisted.
type Service struct {
	orders  OrderRepository
	carts   CartReader
	catalog ProductCatalog
	refs    PaymentReferences
	taxRate decimal.Decimal
}

func NewService(orders OrderRepository, carts CartReader, catalog ProductCatalog, refs PaymentReferences, taxRate decimal.Decimal) *Service {
	return &Service{orders: orders, carts: carts, catalog: catalog, refs: refs, taxRate: taxRate}
}

const eventOrderPlaced = "OrderPlaced"

func (s *Service) PlaceOrder(ctx context.Context, ownerID, paymentRef, traceparent string) (domain.Order, error) {
	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return domain.Order{}, apperr.Wrap(apperr.KindInternal, "loading cart", err)
	}
	if len(cart.Lines) == 0 {
		return domain.Order{}, apperr.New(apperr.KindEmptyCart, "cart is empty")
	}

	ids := make([]string, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return domain.Order{}, apperr.Wrap(apperr.KindInternal, "resolving products", err)
	}

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		p, ok := products[l.ProductID]
		if !ok {
			return domain.Order{}, apperr.New(apperr.KindProductGone, "one or more products no longer exist")
		}
		if p.Stock < l.Quantity {
			return domain.Order{}, apperr.Newf(apperr.KindInsufficientStock,
				"insufficient stock for %s, only %d available", p.Name, p.Stock)
		}
		lines = append(lines, domain.OrderLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
		})
	}

	claimed := false
	if paymentRef == "" {
		paymentRef = "pay_" + uuid.NewString()
	} else {
		ok, err := s.refs.ClaimPayment(ctx, paymentRef)
		if err != nil {
			return domain.Order{}, apperr.Wrap(apperr.KindInternal, "claiming payment reference", err)
		}
		if !ok {
			return domain.Order{}, apperr.New(apperr.KindInvalidArgument, "payment reference already used")
		}
		claimed = true
	}

	o := domain.NewOrder(uuid.NewString(), ownerID, lines, s.taxRate, paymentRef)

	event := domain.OrderPlaced{
		OrderID: o.ID,
		OwnerID: o.OwnerID,
		Total:   o.Total,
		Lines:   make([]domain.OrderLineEvent, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		event.Lines = append(event.Lines, domain.OrderLineEvent{
			ProductID: l.ProductID, Name: l.Name, Price: l.Price, Quantity: l.Quantity,
		})
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Order{}, apperr.Wrap(apperr.KindInternal, "encoding order event", err)
	}

	if err := s.orders.PlaceWithOutbox(ctx, o, eventOrderPlaced, payload, traceparent); err != nil {
		// The transaction rolled back, so the reference was never consumed;
		// free it for a legitimate resubmit.
		if claimed {
			_ = s.refs.ReleasePayment(ctx, paymentRef)
		}
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Service) Orders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.orders.ListByOwner(ctx, ownerID)
}
