// Package seed loads the sample catalog. Stock is brought to its sample
// levels by recording movements, so seeded quantities always agree with
// the ledger.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockroom/stockroom/internal/catalog/products"
	"github.com/stockroom/stockroom/internal/catalog/suppliers"
	"github.com/stockroom/stockroom/internal/ledger"
	"github.com/stockroom/stockroom/internal/platform/db"
)

// Wiper empties the inventory tables.
type Wiper interface {
	Wipe(ctx context.Context) error
}

// SupplierCreator creates suppliers.
type SupplierCreator interface {
	Create(ctx context.Context, in suppliers.Input) (suppliers.Supplier, error)
}

// ProductCreator creates products.
type ProductCreator interface {
	Create(ctx context.Context, in products.CreateInput) (products.Product, error)
}

// MovementRecorder records stock movements.
type MovementRecorder interface {
	RecordMovement(ctx context.Context, in ledger.MovementInput) (ledger.Record, error)
}

// Summary counts what was created.
type Summary struct {
	Suppliers    int `json:"suppliers"`
	Products     int `json:"products"`
	Transactions int `json:"transactions"`
}

// Seeder loads the sample data set.
type Seeder struct {
	wiper     Wiper
	suppliers SupplierCreator
	products  ProductCreator
	ledger    MovementRecorder
}

// NewSeeder builds Seeder.
func NewSeeder(wiper Wiper, sup SupplierCreator, prod ProductCreator, led MovementRecorder) *Seeder {
	return &Seeder{wiper: wiper, suppliers: sup, products: prod, ledger: led}
}

type sampleSupplier struct {
	name, email, phone string
}

type sampleProduct struct {
	name, sku, price string
	suppliers        []int
}

type sampleMovement struct {
	product  int
	kind     ledger.Kind
	quantity int64
	price    string
}

var sampleSuppliers = []sampleSupplier{
	{"TechCorp Electronics", "orders@techcorp.com", "+1-555-0123"},
	{"Office Supplies Co", "sales@officesupplies.com", "+1-555-0456"},
	{"Fashion Forward", "orders@fashionforward.com", "+1-555-0789"},
}

var sampleProducts = []sampleProduct{
	{"Wireless Mouse", "WM-001", "29.99", []int{0}},
	{"Mechanical Keyboard", "KB-002", "89.99", []int{0}},
	{"Office Chair", "OC-003", "199.99", []int{1}},
	{"Desk Lamp", "DL-004", "45.50", []int{1, 2}},
	{"Bluetooth Headphones", "BH-005", "79.99", []int{0}},
}

var sampleMovements = []sampleMovement{
	{0, ledger.KindPurchase, 30, "25.00"},
	{0, ledger.KindSale, 5, "29.99"},
	{1, ledger.KindPurchase, 20, "75.00"},
	{1, ledger.KindSale, 5, "89.99"},
	{2, ledger.KindPurchase, 10, "150.00"},
	{2, ledger.KindSale, 7, "199.99"},
	{3, ledger.KindPurchase, 15, "35.00"},
	{3, ledger.KindSale, 7, "45.50"},
	{4, ledger.KindPurchase, 15, "65.00"},
	{4, ledger.KindSale, 3, "79.99"},
}

// Run wipes existing data and loads the sample set.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if err := s.wiper.Wipe(ctx); err != nil {
		return sum, fmt.Errorf("seed: wipe: %w", err)
	}

	supplierIDs := make([]suppliers.Supplier, 0, len(sampleSuppliers))
	for _, in := range sampleSuppliers {
		email, phone := in.email, in.phone
		sup, err := s.suppliers.Create(ctx, suppliers.Input{Name: in.name, ContactEmail: &email, Phone: &phone})
		if err != nil {
			return sum, fmt.Errorf("seed: supplier %s: %w", in.name, err)
		}
		supplierIDs = append(supplierIDs, sup)
		sum.Suppliers++
	}

	created := make([]products.Product, 0, len(sampleProducts))
	for _, in := range sampleProducts {
		input := products.CreateInput{Name: in.name, SKU: in.sku, UnitPrice: decimal.RequireFromString(in.price)}
		for _, idx := range in.suppliers {
			input.SupplierIDs = append(input.SupplierIDs, supplierIDs[idx].ID)
		}
		p, err := s.products.Create(ctx, input)
		if err != nil {
			return sum, fmt.Errorf("seed: product %s: %w", in.sku, err)
		}
		created = append(created, p)
		sum.Products++
	}

	for _, mv := range sampleMovements {
		_, err := s.ledger.RecordMovement(ctx, ledger.MovementInput{
			ProductID: created[mv.product].ID,
			Kind:      mv.kind,
			Quantity:  mv.quantity,
			UnitPrice: decimal.RequireFromString(mv.price),
		})
		if err != nil {
			return sum, fmt.Errorf("seed: %s %s: %w", mv.kind, created[mv.product].SKU, err)
		}
		sum.Transactions++
	}
	return sum, nil
}

// PoolWiper deletes all inventory rows in one transaction.
type PoolWiper struct {
	pool *pgxpool.Pool
}

// NewPoolWiper builds PoolWiper.
func NewPoolWiper(pool *pgxpool.Pool) *PoolWiper {
	return &PoolWiper{pool: pool}
}

// Wipe implements Wiper.
func (w *PoolWiper) Wipe(ctx context.Context) error {
	err := db.WithTx(ctx, w.pool, pgx.ReadCommitted, func(tx pgx.Tx) error {
		for _, table := range []string{"transactions", "product_suppliers", "products", "suppliers"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
	return db.Classify(err)
}
