// Package reports provides read-only stock reports.
package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when the caller does not pick one.
const DefaultLowStockThreshold = 5

// StockItem is a product row as reported.
type StockItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// InventoryValue is the total stock value.
type InventoryValue struct {
	Total decimal.Decimal `json:"total"`
}

// Dashboard summarises the catalog for the overview page.
type Dashboard struct {
	ProductCount   int             `json:"productCount"`
	LowStockCount  int             `json:"lowStockCount"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	Threshold      int64           `json:"threshold"`
}
