package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/freshbasket/storefront/pkg/config"
	"github.com/freshbasket/storefront/pkg/idempotency"
	"github.com/freshbasket/storefront/pkg/logging"
	"github.com/freshbasket/storefront/pkg/outbox"
	"github.com/freshbasket/storefront/pkg/postgres"
	"github.com/freshbasket/storefront/pkg/shutdown"
	"github.com/freshbasket/storefront/pkg/tracing"

	cartapp "github.com/freshbasket/storefront/internal/cart/application"
	carthttp "github.com/freshbasket/storefront/internal/cart/infrastructure/http"
	cartpg "github.com/freshbasket/storefront/internal/cart/infrastructure/postgres"
	catalogapp "github.com/freshbasket/storefront/internal/catalog/application"
	cataloghttp "github.com/freshbasket/storefront/internal/catalog/infrastructure/http"
	catalogpg "github.com/freshbasket/storefront/internal/catalog/infrastructure/postgres"
	checkoutapp "github.com/freshbasket/storefront/internal/checkout/application"
	checkouthttp "github.com/freshbasket/storefront/internal/checkout/infrastructure/http"
	checkoutkafka "github.com/freshbasket/storefront/internal/checkout/infrastructure/kafka"
	checkoutpg "github.com/freshbasket/storefront/internal/checkout/infrastructure/postgres"
	checkoutredis "github.com/freshbasket/storefront/internal/checkout/infrastructure/redis"
	"github.com/freshbasket/storefront/internal/identity"
	paymentapp "github.com/freshbasket/storefront/internal/payment/application"
	paymenthttp "github.com/freshbasket/storefront/internal/payment/infrastructure/http"
	"github.com/freshbasket/storefront/internal/web"
)

func main() {
	log := logging.New("storefront")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, 24*time.Hour)

	writer := checkoutkafka.NewWriter(cfg.KafkaBrokers)
	defer writer.Close()

	// Repositories & services
	catalogRepo := catalogpg.NewRepository(log, pool)
	catalogSvc := catalogapp.NewService(catalogRepo)

	cartRepo := cartpg.NewRepository(log, pool)
	cartSvc := cartapp.NewService(cartRepo, catalogRepo)

	orderRepo := checkoutpg.NewRepository(log, pool)
	refs := checkoutredis.NewPaymentReferences(idem)
	checkoutSvc := checkoutapp.NewService(orderRepo, cartRepo, catalogRepo, refs, cfg.TaxRate)

	simulator := paymentapp.NewSimulator(log, cfg.PaymentDelay, cfg.PaymentSuccessRate)

	// Outbox relay
	outboxStore := checkoutpg.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OrderTopic)
	relay := outbox.NewRelay(log, outboxStore, dispatch, "storefront-relay")

	// Handlers
	catalogHandler := cataloghttp.NewHandler(log, catalogSvc)
	cartHandler := carthttp.NewHandler(log, cartSvc)
	checkoutHandler := checkouthttp.NewHandler(log, checkoutSvc)
	paymentHandler := paymenthttp.NewHandler(log, simulator)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(web.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(identity.Middleware(cfg.JWTSecret))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		web.JSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})
	r.Mount("/products", catalogHandler.Routes())
	r.Mount("/cart", cartHandler.Routes())
	r.Post("/payment", paymentHandler.Process)
	r.Post("/checkout", checkoutHandler.PlaceOrder)
	r.Get("/orders", checkoutHandler.ListOrders)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront shutdown complete")
}
