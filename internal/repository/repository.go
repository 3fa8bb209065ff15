// Package repository holds the sqlx-backed data access for pharmacies,
// catalog entries and inventory batches. Queries are written with ?
// placeholders and rebound for the connected driver.
package repository

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"medstock/m/internal/apperr"
)

// storageErr wraps a driver failure and logs its cause. The wrapped error
// reaching callers carries no schema detail in its message.
func storageErr(logger *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.Kind(err) == apperr.KindUnknown {
		logger.Error("storage operation failed", "op", op, "error", err)
	}
	return apperr.Storage(op, err)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally as a
// lower-case substring. Use with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// exists runs a COUNT query and reports whether it matched any row.
func exists(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind(query), args...); err != nil {
		return false, err
	}
	return n > 0, nil
}
