package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/freshbasket/storefront/internal/catalog/domain"
	catalogpg "github.com/freshbasket/storefront/internal/catalog/infrastructure/postgres"
	"github.com/freshbasket/storefront/pkg/config"
	"github.com/freshbasket/storefront/pkg/logging"
	"github.com/freshbasket/storefront/pkg/postgres"
)

type seedProduct struct {
	name        string
	price       string
	stock       int
	image       string
	description string
}

var seedProducts = []seedProduct{
	{"Tropical Paradise Hamper", "400.00", 15, "https://images.unsplash.com/photo-1519996529931-28324d5a630e?w=400", "Banana, Pawpaw, Pineapple, Grapes, Apple"},
	{"Berry Delight", "800.00", 8, "https://images.unsplash.com/photo-1464454709131-ffd692591ee5?w=400", "Fresh mixed berries basket"},
	{"Citrus Burst", "100.00", 25, "https://images.unsplash.com/photo-1582979512210-99b6a53386f9?w=400", "Oranges, Lemons, Grapefruits"},
	{"Exotic Mix", "180.00", 12, "https://images.unsplash.com/photo-1610832958506-aa56368176cf?w=400", "Dragon fruit, Passion fruit, Kiwi"},
	{"Classic Basket", "90.00", 30, "https://images.unsplash.com/photo-1542838132-92c53300491e?w=400", "Traditional fruit selection"},
	{"Premium Selection", "250.00", 10, "https://images.unsplash.com/photo-1619566636858-adf3ef46400b?w=400", "Premium quality fruits"},
	{"Family Pack", "200.00", 18, "https://images.unsplash.com/photo-1523049673857-eb18f1d7b578?w=400", "Large family-sized basket"},
	{"Gift Basket", "130.00", 20, "https://images.unsplash.com/photo-1519996409144-56c88426df6f?w=400", "Perfect for gifting"},
}

func main() {
	log := logging.New("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

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

	products := make([]catalogdomain.Product, 0, len(seedProducts))
	for _, s := range seedProducts {
		products = append(products, catalogdomain.Product{
			ID:          uuid.NewString(),
			Name:        s.name,
			Price:       decimal.RequireFromString(s.price),
			Stock:       s.stock,
			Image:       s.image,
			Description: s.description,
		})
	}

	repo := catalogpg.NewRepository(log, pool)
	if err := repo.Replace(ctx, products); err != nil {
		log.Error("seeding failed", "err", err)
		os.Exit(1)
	}
	log.Info("catalog seeded", "products", len(products))
}
