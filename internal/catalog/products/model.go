// Package products manages the product catalog and product-supplier links.
// Stock quantity is set once at creation; afterwards only the ledger moves it.
package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a stocked item.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	SupplierIDs []uuid.UUID     `json:"supplierIds"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateInput carries the fields accepted when a product is created.
type CreateInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	SKU         string          `json:"sku" validate:"required,max=64"`
	Quantity    int64           `json:"quantity" validate:"gte=0,max=2147483647"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"decimal_gte0,money"`
	SupplierIDs []uuid.UUID     `json:"supplierIds"`
}

// UpdateInput carries the editable fields. Quantity is deliberately absent.
type UpdateInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	SKU         string          `json:"sku" validate:"required,max=64"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"decimal_gte0,money"`
	SupplierIDs []uuid.UUID     `json:"supplierIds"`
}

// SuppliersInput is the body of a supplier set replacement.
type SuppliersInput struct {
	SupplierIDs []uuid.UUID `json:"supplierIds"`
}
