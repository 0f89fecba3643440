package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/stockroom/stockroom/internal/app"
	"github.com/stockroom/stockroom/internal/catalog/products"
	"github.com/stockroom/stockroom/internal/catalog/suppliers"
	"github.com/stockroom/stockroom/internal/ledger"
	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	fmt.Println("→ Applying schema...")
	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	fmt.Println("→ Seeding sample inventory...")
	seeder := seed.NewSeeder(
		seed.NewPoolWiper(pool),
		suppliers.NewService(suppliers.NewRepository(pool)),
		products.NewService(products.NewRepository(pool)),
		ledger.NewService(ledger.NewRepository(pool), nil, nil, logger),
	)
	sum, err := seeder.Run(ctx)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Printf("✓ Seeded %d suppliers, %d products, %d transactions at %s\n",
		sum.Suppliers, sum.Products, sum.Transactions, time.Now().Format(time.RFC3339))
}
