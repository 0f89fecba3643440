package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockroom/stockroom/internal/platform/db"
)

// Repository reads report data from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `p.id, p.name, p.sku, p.quantity, p.unit_price, p.created_at, p.updated_at`

// LowStock lists products at or below threshold, lowest quantity first.
func (r *Repository) LowStock(ctx context.Context, threshold int64) ([]StockItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM products p
		WHERE p.quantity <= $1 ORDER BY p.quantity ASC, p.name ASC, p.id`, threshold)
	if err != nil {
		return nil, db.Classify(err)
	}
	return collectItems(rows)
}

// CountLowStock counts products at or below threshold.
func (r *Repository) CountLowStock(ctx context.Context, threshold int64) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE quantity <= $1`, threshold).Scan(&n); err != nil {
		return 0, db.Classify(err)
	}
	return n, nil
}

// CountProducts counts all products.
func (r *Repository) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, db.Classify(err)
	}
	return n, nil
}

// InventoryValue sums quantity times unit price over all products.
func (r *Repository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(quantity * unit_price), 0) FROM products`).Scan(&total)
	if err != nil {
		return decimal.Zero, db.Classify(err)
	}
	return total, nil
}

// ProductsBySupplier lists products linked to supplierID.
func (r *Repository) ProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]StockItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM products p
		JOIN product_suppliers ps ON ps.product_id = p.id
		WHERE ps.supplier_id = $1
		ORDER BY p.name ASC, p.id`, supplierID)
	if err != nil {
		return nil, db.Classify(err)
	}
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]StockItem, error) {
	defer rows.Close()
	items := make([]StockItem, 0)
	for rows.Next() {
		var it StockItem
		if err := rows.Scan(&it.ID, &it.Name, &it.SKU, &it.Quantity, &it.UnitPrice, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, db.Classify(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return items, nil
}
