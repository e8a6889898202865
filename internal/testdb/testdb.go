//go:build integration

// Package testdb opens the integration test database and isolates each test
// in a transaction that is rolled back when the test finishes.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/scrynotes/memorygame/internal/config"
	"github.com/scrynotes/memorygame/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// URLEnv names the variable holding the test database URL.
const URLEnv = "DATABASE_URL"

var (
	migrateOnce sync.Once
	migrateErr  error
)

// URL returns the test database URL, or "" when none is configured.
func URL() string {
	return os.Getenv(URLEnv)
}

// Open connects to the test database and applies migrations once per process.
// The test is skipped when no database is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skipf("%s not set", URLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 4, MaxIdleConns: 2})
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})
	require.NoError(t, migrateErr, "failed to migrate test database")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin test transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
