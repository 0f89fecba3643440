package suppliers

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

// Repository persists suppliers.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id uuid.UUID) (Supplier, error)
	Create(ctx context.Context, in Input) (Supplier, error)
	Update(ctx context.Context, id uuid.UUID, in Input) (Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the PostgreSQL Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const supplierColumns = `id, name, contact_email, phone, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	where := ""
	args := []any{}
	if filters.Search != "" {
		args = append(args, shared.ContainsPattern(filters.Search))
		where = ` WHERE name ILIKE $1 ESCAPE '\' OR contact_email ILIKE $1 ESCAPE '\'`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}

	query := `SELECT ` + supplierColumns + ` FROM suppliers` + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	args = append(args, filters.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filters.Offset())
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()

	suppliers := make([]Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, db.Classify(err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Classify(err)
	}
	return suppliers, total, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	s, err := scanSupplier(r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		return Supplier{}, notFound(err, id)
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, in Input) (Supplier, error) {
	query := `INSERT INTO suppliers (name, contact_email, phone) VALUES ($1, $2, $3) RETURNING ` + supplierColumns
	s, err := scanSupplier(r.db.QueryRow(ctx, query, in.Name, in.ContactEmail, in.Phone))
	if err != nil {
		return Supplier{}, duplicateName(err, in.Name)
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, in Input) (Supplier, error) {
	query := `UPDATE suppliers SET name = $2, contact_email = $3, phone = $4, updated_at = now()
		WHERE id = $1 RETURNING ` + supplierColumns
	s, err := scanSupplier(r.db.QueryRow(ctx, query, id, in.Name, in.ContactEmail, in.Phone))
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return Supplier{}, duplicateName(err, in.Name)
		}
		return Supplier{}, notFound(err, id)
	}
	return s, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplier %s", shared.ErrNotFound, id)
	}
	return nil
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactEmail, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: supplier %s", shared.ErrNotFound, id)
	}
	return db.Classify(err)
}

func duplicateName(err error, name string) error {
	if db.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: supplier name %q already exists", shared.ErrConflict, name)
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
		return "name " + dir + ", id"
	case "created_at":
		return "created_at " + dir + ", id"
	default:
		return "created_at DESC, id"
	}
}
