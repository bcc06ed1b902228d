package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	notifapp "github.com/freshbasket/storefront/internal/notification/application"
	notifkafka "github.com/freshbasket/storefront/internal/notification/infrastructure/kafka"
	"github.com/freshbasket/storefront/pkg/config"
	"github.com/freshbasket/storefront/pkg/idempotency"
	"github.com/freshbasket/storefront/pkg/logging"
	"github.com/freshbasket/storefront/pkg/shutdown"
	"github.com/freshbasket/storefront/pkg/tracing"
)

func main() {
	log := logging.New("notifier")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "notifier", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, 24*time.Hour)

	svc := notifapp.NewService(log)
	consumer := notifkafka.NewConsumer(log, cfg.KafkaBrokers, cfg.OrderTopic, "notifier", svc, idem)

	log.Info("notifier consuming", "topic", cfg.OrderTopic)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("notifier shutdown complete")
}
