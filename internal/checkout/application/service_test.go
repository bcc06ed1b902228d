package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasket/storefront/internal/apperr"
	cart "github.com/freshbasket/storefront/internal/cart/domain"
	catalog "github.com/freshbasket/storefront/internal/catalog/domain"
	"github.com/freshbasket/storefront/internal/checkout/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeOrders struct {
	placed   []domain.Order
	payloads [][]byte
	failWith error
}

func (f *fakeOrders) PlaceWithOutbox(_ context.Context, o domain.Order, _ string, payload []byte, _ string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.placed = append(f.placed, o)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeOrders) ListByOwner(_ context.Context, ownerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.placed {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCarts struct {
	carts map[string]cart.Cart
}

func (f *fakeCarts) Get(_ context.Context, ownerID string) (cart.Cart, error) {
	if c, ok := f.carts[ownerID]; ok {
		return c, nil
	}
	return cart.Cart{OwnerID: ownerID}, nil
}

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (f *fakeCatalog) GetMany(_ context.Context, ids []string) (map[string]catalog.Product, error) {
	out := make(map[string]catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeRefs struct {
	claimed map[string]bool
}

func (f *fakeRefs) ClaimPayment(_ context.Context, ref string) (bool, error) {
	if f.claimed == nil {
		f.claimed = map[string]bool{}
	}
	if f.claimed[ref] {
		return false, nil
	}
	f.claimed[ref] = true
	return true, nil
}

func (f *fakeRefs) ReleasePayment(_ context.Context, ref string) error {
	delete(f.claimed, ref)
	return nil
}

func fixture() (*Service, *fakeOrders, *fakeCarts, *fakeCatalog) {
	orders := &fakeOrders{}
	carts := &fakeCarts{carts: map[string]cart.Cart{
		"owner": {OwnerID: "owner", Lines: []cart.Line{
			{ProductID: "hamper", Quantity: 2},
			{ProductID: "citrus", Quantity: 1},
		}},
	}}
	cat := &fakeCatalog{products: map[string]catalog.Product{
		"hamper": {ID: "hamper", Name: "Tropical Paradise Hamper", Price: d("400.00"), Stock: 15},
		"citrus": {ID: "citrus", Name: "Citrus Burst", Price: d("100.00"), Stock: 25},
	}}
	return NewService(orders, carts, cat, &fakeRefs{}, d("0.10")), orders, carts, cat
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	svc, orders, _, _ := fixture()

	o, err := svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.NoError(t, err)

	assert.True(t, o.Subtotal.Equal(d("900.00")), "subtotal %s", o.Subtotal)
	assert.True(t, o.Tax.Equal(d("90.00")), "tax %s", o.Tax)
	assert.True(t, o.Total.Equal(d("990.00")), "total %s", o.Total)
	assert.Equal(t, domain.PaymentCompleted, o.PaymentStatus)
	assert.Equal(t, "pay_abc", o.PaymentRef)

	require.Len(t, orders.placed, 1)
	require.Len(t, orders.placed[0].Lines, 2)
	assert.Equal(t, "Tropical Paradise Hamper", orders.placed[0].Lines[0].Name)
	assert.Equal(t, 2, orders.placed[0].Lines[0].Quantity)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, orders, _, _ := fixture()

	_, err := svc.PlaceOrder(t.Context(), "nobody", "pay_abc", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindEmptyCart, apperr.KindOf(err))
	assert.Empty(t, orders.placed, "no order may be created for an empty cart")
}

func TestPlaceOrderInsufficientStockAbortsWhole(t *testing.T) {
	svc, orders, _, cat := fixture()
	cat.products["citrus"] = catalog.Product{ID: "citrus", Name: "Citrus Burst", Price: d("100.00"), Stock: 0}

	_, err := svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Citrus Burst")
	assert.Contains(t, err.Error(), "0 available")
	assert.Empty(t, orders.placed)
}

func TestPlaceOrderProductGone(t *testing.T) {
	svc, orders, _, cat := fixture()
	delete(cat.products, "hamper")

	_, err := svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindProductGone, apperr.KindOf(err))
	assert.Empty(t, orders.placed)
}

func TestPlaceOrderSnapshotsProductFields(t *testing.T) {
	svc, _, _, cat := fixture()

	_, err := svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.NoError(t, err)

	// mutate the catalog after the fact; the snapshot must not move
	p := cat.products["hamper"]
	p.Name = "Renamed"
	p.Price = d("999.00")
	cat.products["hamper"] = p

	got, err := svc.Orders(t.Context(), "owner")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tropical Paradise Hamper", got[0].Lines[0].Name)
	assert.True(t, got[0].Lines[0].Price.Equal(d("400.00")))
}

func TestPlaceOrderReusedPaymentReference(t *testing.T) {
	svc, orders, carts, _ := fixture()

	_, err := svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.NoError(t, err)

	// same cart again, same reference
	carts.carts["owner"] = cart.Cart{OwnerID: "owner", Lines: []cart.Line{{ProductID: "citrus", Quantity: 1}}}
	_, err = svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	assert.Len(t, orders.placed, 1)
}

func TestPlaceOrderGeneratesReferenceWhenAbsent(t *testing.T) {
	svc, _, _, _ := fixture()

	o, err := svc.PlaceOrder(t.Context(), "owner", "", "")
	require.NoError(t, err)
	assert.Contains(t, o.PaymentRef, "pay_")
}

func TestPlaceOrderEmitsOrderPlacedEvent(t *testing.T) {
	svc, orders, _, _ := fixture()

	o, err := svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.NoError(t, err)

	require.Len(t, orders.payloads, 1)
	var event domain.OrderPlaced
	require.NoError(t, json.Unmarshal(orders.payloads[0], &event))
	assert.Equal(t, o.ID, event.OrderID)
	assert.Equal(t, "owner", event.OwnerID)
	assert.True(t, event.Total.Equal(d("990.00")))
	assert.Len(t, event.Lines, 2)
}

func TestPlaceOrderRepositoryFailurePropagates(t *testing.T) {
	svc, orders, _, _ := fixture()
	orders.failWith = apperr.New(apperr.KindInsufficientStock, "insufficient stock for Citrus Burst, only 0 available")

	_, err := svc.PlaceOrder(t.Context(), "owner", "pay_abc", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
}
