// Package testutil provides utilities for testing.
package testutil

import (
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"

	"medstock/m/internal/config"
	"medstock/m/internal/database"
	"medstock/m/internal/migrations"
)

// NewTestDB opens an in-memory SQLite database with the schema applied.
// The database is closed when the test ends.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

// AssertRowCount asserts the row count for a table.
func AssertRowCount(t *testing.T, db *sqlx.DB, table string, expected int) {
	t.Helper()

	var count int
	if err := db.Get(&count, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}

// ExecSQL executes arbitrary SQL (useful for test setup).
func ExecSQL(t *testing.T, db *sqlx.DB, query string, args ...any) {
	t.Helper()

	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		t.Fatalf("failed to execute SQL: %v\nSQL: %s", err, query)
	}
}
