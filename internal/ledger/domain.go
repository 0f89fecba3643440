package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/stockroom/internal/shared"
)

// Kind enumerates supported stock movements.
type Kind string

const (
	// KindPurchase increases stock.
	KindPurchase Kind = "purchase"
	// KindSale decreases stock.
	KindSale Kind = "sale"
)

// MaxQuantity is the largest quantity the store can hold (INTEGER column).
const MaxQuantity = math.MaxInt32

// Valid reports whether k is a known movement kind.
func (k Kind) Valid() bool {
	return k == KindPurchase || k == KindSale
}

// Sign returns +1 for purchases and -1 for sales.
func (k Kind) Sign() int64 {
	if k == KindSale {
		return -1
	}
	return 1
}

// ParseKind converts raw input into a Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if !k.Valid() {
		return "", shared.FieldError("type", fmt.Sprintf("must be one of: %s %s", KindPurchase, KindSale))
	}
	return k, nil
}

// Record is one immutable ledger row.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Kind      Kind            `json:"type"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SignedQuantity returns the quantity delta this record applied.
func (r Record) SignedQuantity() int64 {
	return r.Kind.Sign() * r.Quantity
}

// MovementInput describes a requested stock movement.
type MovementInput struct {
	ProductID uuid.UUID
	Kind      Kind
	Quantity  int64
	UnitPrice decimal.Decimal
}

// ProductStock is the locked view of a product used inside a unit of work.
type ProductStock struct {
	ProductID uuid.UUID
	Quantity  int64
}

// ListFilter narrows ledger listings.
type ListFilter struct {
	ProductID *uuid.UUID
	Kind      Kind
	Limit     int
}

// Reconciliation compares the cached quantity with the ledger.
type Reconciliation struct {
	ProductID      uuid.UUID `json:"productId"`
	CachedQuantity int64     `json:"cachedQuantity"`
	LedgerNet      int64     `json:"ledgerNet"`
	Entries        int       `json:"entries"`
	// OpeningQuantity is the quantity the product must have been created
	// with for the ledger to explain the cached value.
	OpeningQuantity int64 `json:"openingQuantity"`
}

// InsufficientStockError reports a sale larger than the available quantity.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s has %d, sale of %d requested",
		shared.ErrInsufficientStock, e.ProductID, e.Available, e.Requested)
}

// Unwrap lets errors.Is match shared.ErrInsufficientStock.
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}
