// Package pgtest starts a throwaway Postgres for repository tests.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewDB returns a migrated database. The container is terminated on test cleanup.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in -short mode")
	}

	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.Open(dsn, &postgres.Config{MaxOpenConns: 10})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.RunMigrations(db))
	return db
}

// Fixture inserts catalog rows used across repository tests.
type Fixture struct {
	DB *sqlx.DB
	T  *testing.T
}

func (f Fixture) Product(id, slug, title, category, status string, updatedAt time.Time) {
	f.T.Helper()
	_, err := f.DB.Exec(`
		INSERT INTO products (id, slug, title, category, status, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $6)`,
		id, slug, title, category, status, updatedAt)
	require.NoError(f.T, err)
}

func (f Fixture) Featured(productID string, popular, preview *int) {
	f.T.Helper()
	_, err := f.DB.Exec(`UPDATE products SET popular = $2, preview = $3 WHERE id = $1`, productID, popular, preview)
	require.NoError(f.T, err)
}

func (f Fixture) Color(id, productID, name, slug string, sortOrder int) {
	f.T.Helper()
	_, err := f.DB.Exec(`
		INSERT INTO colors (id, product_id, name, slug, sort_order) VALUES ($1, $2, $3, $4, $5)`,
		id, productID, name, slug, sortOrder)
	require.NoError(f.T, err)
}

func (f Fixture) Image(id, colorID, url string, sortOrder int) {
	f.T.Helper()
	_, err := f.DB.Exec(`
		INSERT INTO images (id, color_id, url, alt, sort_order) VALUES ($1, $2, $3, '', $4)`,
		id, colorID, url, sortOrder)
	require.NoError(f.T, err)
}

func (f Fixture) Variant(id, colorID, size string, sizeSort int, price int64, stock int, status string) {
	f.T.Helper()
	_, err := f.DB.Exec(`
		INSERT INTO variants (id, color_id, size, size_sort, price, stock, sku, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, colorID, size, sizeSort, price, stock, id+"-sku", status)
	require.NoError(f.T, err)
}
