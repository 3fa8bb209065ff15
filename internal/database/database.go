package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"

	"medstock/m/internal/config"
)

func init() {
	// sqlx only knows the cgo sqlite3 driver name; modernc registers "sqlite".
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	sqlite.MustRegisterDeterministicScalarFunction(sqliteLower, 1, unicodeLower)
}

// sqliteLower names the Unicode-aware replacement for SQLite's LOWER, which
// only folds ASCII letters.
const sqliteLower = "unicode_lower"

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// LowerFunc returns the SQL function that lower-cases text the way
// strings.ToLower does on db's dialect.
func LowerFunc(db *sqlx.DB) string {
	if IsPostgres(db) {
		return "LOWER"
	}
	return sqliteLower
}

// driverName maps the configured driver onto the database/sql driver name.
func driverName(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite", nil
	case config.DriverPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Connect opens and pings the configured database.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	name, err := driverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Connect(name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s database: %w", cfg.Driver, err)
	}

	if name == "sqlite" {
		// SQLite only supports one writer.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
		return db, nil
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// IsPostgres reports whether db speaks the postgres dialect.
func IsPostgres(db *sqlx.DB) bool {
	return db.DriverName() == "pgx"
}
