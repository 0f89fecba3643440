package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/shared"
)

const defaultListLimit = 200

// Repository persists ledger data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the operations available inside one unit of work.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, productID uuid.UUID) (ProductStock, error)
	InsertRecord(ctx context.Context, rec Record) (Record, error)
	UpdateProductQuantity(ctx context.Context, productID uuid.UUID, quantity int64) error
}

type txRepo struct {
	db db.DBTX
}

// WithTx runs fn inside a READ COMMITTED transaction. Row locks taken with
// GetProductForUpdate make a concurrent movement on the same product wait and
// then observe the committed quantity.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, pgx.ReadCommitted, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{db: tx})
	})
	return db.Classify(err)
}

// GetQuantity returns the cached product quantity.
func (r *Repository) GetQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	var qty int64
	err := r.pool.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: product %s", shared.ErrNotFound, productID)
		}
		return 0, db.Classify(err)
	}
	return qty, nil
}

// ListRecords returns ledger rows newest first.
func (r *Repository) ListRecords(ctx context.Context, filter ListFilter) ([]Record, error) {
	var conditions []string
	var args []any
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	query := `SELECT id, product_id, type, quantity, unit_price, created_at FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return records, nil
}

// Reconcile reads the cached quantity and the ledger sum in one statement.
func (r *Repository) Reconcile(ctx context.Context, productID uuid.UUID) (Reconciliation, error) {
	const query = `
		SELECT p.quantity,
		       COALESCE(SUM(CASE WHEN t.type = 'purchase' THEN t.quantity ELSE -t.quantity END), 0),
		       COUNT(t.id)
		FROM products p
		LEFT JOIN transactions t ON t.product_id = p.id
		WHERE p.id = $1
		GROUP BY p.id, p.quantity`
	rec := Reconciliation{ProductID: productID}
	var entries int64
	err := r.pool.QueryRow(ctx, query, productID).Scan(&rec.CachedQuantity, &rec.LedgerNet, &entries)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reconciliation{}, fmt.Errorf("%w: product %s", shared.ErrNotFound, productID)
		}
		return Reconciliation{}, db.Classify(err)
	}
	rec.Entries = int(entries)
	rec.OpeningQuantity = rec.CachedQuantity - rec.LedgerNet
	return rec, nil
}

func (r *txRepo) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (ProductStock, error) {
	stock := ProductStock{ProductID: productID}
	err := r.db.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&stock.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductStock{}, fmt.Errorf("%w: product %s", shared.ErrNotFound, productID)
		}
		return ProductStock{}, err
	}
	return stock, nil
}

func (r *txRepo) InsertRecord(ctx context.Context, rec Record) (Record, error) {
	const query = `
		INSERT INTO transactions (product_id, type, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, type, quantity, unit_price, created_at`
	row := r.db.QueryRow(ctx, query, rec.ProductID, string(rec.Kind), rec.Quantity, rec.UnitPrice)
	return scanRecord(row)
}

func (r *txRepo) UpdateProductQuantity(ctx context.Context, productID uuid.UUID, quantity int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, productID)
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var kind string
	if err := row.Scan(&rec.ID, &rec.ProductID, &kind, &rec.Quantity, &rec.UnitPrice, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	rec.Kind = Kind(kind)
	return rec, nil
}
