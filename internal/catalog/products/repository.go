package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/shared"
)

// Repository persists products.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TxRepository exposes the writes performed inside one transaction.
type TxRepository interface {
	Insert(ctx context.Context, in CreateInput) (Product, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Product, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (Product, error)
	ReplaceSuppliers(ctx context.Context, productID uuid.UUID, supplierIDs []uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

type txRepository struct {
	db db.DBTX
}

// NewRepository returns the PostgreSQL Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `p.id, p.name, p.sku, p.quantity, p.unit_price, p.created_at, p.updated_at`

// supplierIDsColumn aggregates linked supplier ids for one product row.
const supplierIDsColumn = `COALESCE((SELECT array_agg(ps.supplier_id ORDER BY ps.supplier_id)
	FROM product_suppliers ps WHERE ps.product_id = p.id), '{}')`

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, pgx.ReadCommitted, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{db: tx})
	})
	return db.Classify(err)
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	where := ""
	args := []any{}
	if filters.Search != "" {
		args = append(args, shared.ContainsPattern(filters.Search))
		where = ` WHERE p.name ILIKE $1 ESCAPE '\' OR p.sku ILIKE $1 ESCAPE '\'`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}

	query := `SELECT ` + productColumns + `, ` + supplierIDsColumn + ` FROM products p` + where +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	args = append(args, filters.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filters.Offset())
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProductWithSuppliers(rows)
		if err != nil {
			return nil, 0, db.Classify(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Classify(err)
	}
	return products, total, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	query := `SELECT ` + productColumns + `, ` + supplierIDsColumn + ` FROM products p WHERE p.id = $1`
	p, err := scanProductWithSuppliers(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Product{}, notFound(err, id)
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *txRepository) Insert(ctx context.Context, in CreateInput) (Product, error) {
	query := `INSERT INTO products AS p (name, sku, quantity, unit_price) VALUES ($1, $2, $3, $4)
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRow(ctx, query, in.Name, in.SKU, in.Quantity, in.UnitPrice))
	if err != nil {
		return Product{}, duplicateSKU(err, in.SKU)
	}
	return p, nil
}

func (r *txRepository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Product, error) {
	query := `UPDATE products AS p SET name = $2, sku = $3, unit_price = $4, updated_at = now()
		WHERE p.id = $1 RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRow(ctx, query, id, in.Name, in.SKU, in.UnitPrice))
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return Product{}, duplicateSKU(err, in.SKU)
		}
		return Product{}, notFound(err, id)
	}
	return p, nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 FOR UPDATE`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return Product{}, notFound(err, id)
	}
	return p, nil
}

func (r *txRepository) ReplaceSuppliers(ctx context.Context, productID uuid.UUID, supplierIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM product_suppliers WHERE product_id = $1`, productID); err != nil {
		return db.Classify(err)
	}
	if len(supplierIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_suppliers (product_id, supplier_id) SELECT $1, unnest($2::uuid[])`,
		productID, supplierIDs)
	if db.IsForeignKeyViolation(err) {
		return shared.FieldError("supplierIds", "references an unknown supplier")
	}
	return db.Classify(err)
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Quantity, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanProductWithSuppliers(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Quantity, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt, &p.SupplierIDs)
	return p, err
}

func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	return db.Classify(err)
}

func duplicateSKU(err error, sku string) error {
	if db.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: sku %q already exists", shared.ErrConflict, sku)
	}
	return db.Classify(err)
}

func sortOrder(sortBy, sortDir string) string {
	dir := "DESC"
	if sortDir == shared.SortAsc {
		dir = "ASC"
	}
	switch sortBy {
	case "name":
		return "p.name " + dir + ", p.id"
	case "sku":
		return "p.sku " + dir + ", p.id"
	case "quantity":
		return "p.quantity " + dir + ", p.id"
	case "unit_price":
		return "p.unit_price " + dir + ", p.id"
	case "created_at":
		return "p.created_at " + dir + ", p.id"
	default:
		return "p.created_at DESC, p.id"
	}
}
