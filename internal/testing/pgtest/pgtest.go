// Package pgtest opens a migrated PostgreSQL pool for integration tests.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockroom/stockroom/internal/platform/db"
	_ "github.com/stockroom/stockroom/internal/testing/guard"
)

// DSNEnv names the variable holding the integration database DSN.
const DSNEnv = "STOCKROOM_TEST_PG_DSN"

// LockKey is the advisory lock serialising integration tests across test
// binaries that share one database.
const LockKey int64 = 0x73746f636b

// lockWait bounds how long a test waits for another package's test to finish.
const lockWait = 5 * time.Minute

// Open connects to the database named by STOCKROOM_TEST_PG_DSN, takes the
// session advisory lock LockKey until the test ends, applies the schema and
// empties every table. The test is skipped when the variable is unset.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping postgres integration test", DSNEnv)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	lock(t, pool)

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE transactions, product_suppliers, products, suppliers`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

// lock holds LockKey on a dedicated connection and releases it in cleanup,
// before the pool closes.
func lock(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), lockWait)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire lock connection: %v", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, LockKey); err != nil {
		conn.Release()
		t.Fatalf("advisory lock: %v", err)
	}
	t.Cleanup(func() {
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, LockKey); err != nil {
			t.Errorf("advisory unlock: %v", err)
		}
		conn.Release()
	})
}

// InsertProduct creates a bare product row and returns its id.
func InsertProduct(t *testing.T, pool *pgxpool.Pool, sku string, quantity int64) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (name, sku, quantity, unit_price) VALUES ($1, $1, $2, 1) RETURNING id::text`,
		sku, quantity).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}
