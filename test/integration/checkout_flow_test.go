//go:build integration

package integration

import (
	"context"
	"log/slog"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasket/storefront/internal/apperr"
	cartapp "github.com/freshbasket/storefront/internal/cart/application"
	cartpg "github.com/freshbasket/storefront/internal/cart/infrastructure/postgres"
	catalogdomain "github.com/freshbasket/storefront/internal/catalog/domain"
	catalogpg "github.com/freshbasket/storefront/internal/catalog/infrastructure/postgres"
	checkoutapp "github.com/freshbasket/storefront/internal/checkout/application"
	checkoutdomain "github.com/freshbasket/storefront/internal/checkout/domain"
	checkoutpg "github.com/freshbasket/storefront/internal/checkout/infrastructure/postgres"
	checkoutredis "github.com/freshbasket/storefront/internal/checkout/infrastructure/redis"
	"github.com/freshbasket/storefront/pkg/idempotency"
	"github.com/freshbasket/storefront/pkg/postgres"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckoutFlow(t *testing.T) {
	ctx := context.Background()

	env, err := Setup(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { env.Teardown(context.Background()) })

	pool, err := postgres.Connect(ctx, env.PGURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))

	rdb := goredis.NewClient(&goredis.Options{Addr: env.RedisAddr})
	t.Cleanup(func() { _ = rdb.Close() })
	idem := idempotency.NewStore(rdb, time.Hour)

	log := slog.New(slog.DiscardHandler)

	catalogRepo := catalogpg.NewRepository(log, pool)
	require.NoError(t, catalogRepo.Replace(ctx, []catalogdomain.Product{
		{ID: "hamper", Name: "Tropical Paradise Hamper", Price: d("400.00"), Stock: 15, Image: "img"},
		{ID: "citrus", Name: "Citrus Burst", Price: d("100.00"), Stock: 25, Image: "img"},
	}))

	cartRepo := cartpg.NewRepository(log, pool)
	cartSvc := cartapp.NewService(cartRepo, catalogRepo)

	orderRepo := checkoutpg.NewRepository(log, pool)
	refs := checkoutredis.NewPaymentReferences(idem)
	checkoutSvc := checkoutapp.NewService(orderRepo, cartRepo, catalogRepo, refs, d("0.10"))

	owner := "user_integration"

	// Build the cart: 2x hamper (merged from 1+1) and 1x citrus.
	_, err = cartSvc.AddLine(ctx, owner, "hamper", 1)
	require.NoError(t, err)
	_, err = cartSvc.AddLine(ctx, owner, "hamper", 1)
	require.NoError(t, err)
	view, err := cartSvc.AddLine(ctx, owner, "citrus", 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, 3, view.ItemCount())

	order, err := checkoutSvc.PlaceOrder(ctx, owner, "pay_integration_1", "")
	require.NoError(t, err)
	assert.True(t, order.Subtotal.Equal(d("900.00")), "subtotal %s", order.Subtotal)
	assert.True(t, order.Tax.Equal(d("90.00")), "tax %s", order.Tax)
	assert.True(t, order.Total.Equal(d("990.00")), "total %s", order.Total)

	// Stock deducted by exactly the purchased quantities.
	hamper, err := catalogRepo.Get(ctx, "hamper")
	require.NoError(t, err)
	assert.Equal(t, 13, hamper.Stock)
	citrus, err := catalogRepo.Get(ctx, "citrus")
	require.NoError(t, err)
	assert.Equal(t, 24, citrus.Stock)

	// Cart cleared.
	view, err = cartSvc.View(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	// Order visible in history with its snapshot.
	orders, err := checkoutSvc.Orders(ctx, owner)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Lines, 2)
	assert.Equal(t, "Tropical Paradise Hamper", orders[0].Lines[0].Name)

	// OrderPlaced landed in the outbox exactly once.
	var outboxCount int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM outbox WHERE aggregate_id=$1 AND type='OrderPlaced'`, order.ID).Scan(&outboxCount))
	assert.Equal(t, 1, outboxCount)

	// Reusing the payment reference is rejected.
	_, err = cartSvc.AddLine(ctx, owner, "citrus", 1)
	require.NoError(t, err)
	_, err = checkoutSvc.PlaceOrder(ctx, owner, "pay_integration_1", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestCheckoutStockGuardRollsBackWholeAttempt(t *testing.T) {
	ctx := context.Background()

	env, err := Setup(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { env.Teardown(context.Background()) })

	pool, err := postgres.Connect(ctx, env.PGURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))

	rdb := goredis.NewClient(&goredis.Options{Addr: env.RedisAddr})
	t.Cleanup(func() { _ = rdb.Close() })
	idem := idempotency.NewStore(rdb, time.Hour)

	log := slog.New(slog.DiscardHandler)
	catalogRepo := catalogpg.NewRepository(log, pool)
	require.NoError(t, catalogRepo.Replace(ctx, []catalogdomain.Product{
		{ID: "hamper", Name: "Tropical Paradise Hamper", Price: d("400.00"), Stock: 3, Image: "img"},
	}))

	cartRepo := cartpg.NewRepository(log, pool)
	cartSvc := cartapp.NewService(cartRepo, catalogRepo)
	orderRepo := checkoutpg.NewRepository(log, pool)
	checkoutSvc := checkoutapp.NewService(orderRepo, cartRepo, catalogRepo,
		checkoutredis.NewPaymentReferences(idem), d("0.10"))

	owner := "user_guard"
	_, err = cartSvc.AddLine(ctx, owner, "hamper", 3)
	require.NoError(t, err)

	// Stock moves underneath the cart after validation time.
	_, err = pool.Exec(ctx, `UPDATE products SET stock = 1 WHERE id='hamper'`)
	require.NoError(t, err)

	_, err = checkoutSvc.PlaceOrder(ctx, owner, "pay_guard_1", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	// Nothing partial: no order, stock untouched, cart intact.
	var orderCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE owner_id=$1`, owner).Scan(&orderCount))
	assert.Zero(t, orderCount)

	hamper, err := catalogRepo.Get(ctx, "hamper")
	require.NoError(t, err)
	assert.Equal(t, 1, hamper.Stock)

	view, err := cartSvc.View(ctx, owner)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Quantity)

	// Drive the transaction guard directly: an order that passed validation
	// but lost the race must roll back wholesale.
	stale := checkoutdomain.NewOrder("order_stale", owner, []checkoutdomain.OrderLine{
		{ProductID: "hamper", Name: "Tropical Paradise Hamper", Price: d("400.00"), Quantity: 3},
	}, d("0.10"), "pay_guard_2")
	err = orderRepo.PlaceWithOutbox(ctx, stale, "OrderPlaced", []byte(`{}`), "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE owner_id=$1`, owner).Scan(&orderCount))
	assert.Zero(t, orderCount, "guarded update must roll back the order insert")

	hamper, err = catalogRepo.Get(ctx, "hamper")
	require.NoError(t, err)
	assert.Equal(t, 1, hamper.Stock)
}
