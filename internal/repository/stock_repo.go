package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"medstock/m/domain"
)

// StockQuery selects the medications and batch rows to aggregate.
type StockQuery struct {
	PharmacyID int64
	// MedicationID restricts the rows to one medication when non-zero.
	MedicationID int64
	Filter       domain.StockFilter
	// Today is the reference day for the expired filter.
	Today domain.Date
}

// StockRow is one medication joined with at most one of its batches. The
// batch columns are null for a medication with no matching batch.
type StockRow struct {
	domain.Medication
	BatchID        sql.NullInt64  `db:"inventory_id"`
	BatchNumber    sql.NullString `db:"batch_number"`
	Quantity       sql.NullInt64  `db:"quantity"`
	ExpirationDate domain.Date    `db:"expiration_date"`
	LastUpdated    sql.NullTime   `db:"last_updated"`
}

type StockRepository interface {
	StockRows(ctx context.Context, q StockQuery) ([]StockRow, error)
}

type sqlStockRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewStockRepository(db *sqlx.DB, logger *slog.Logger) StockRepository {
	return &sqlStockRepository{db: db, logger: orDefault(logger)}
}

// StockRows left-joins the pharmacy's medications to their batches. Batch
// filters sit in the join condition so that medications without a matching
// batch still produce one row. Rows come back grouped by medication, batches
// in expiration order.
func (r *sqlStockRepository) StockRows(ctx context.Context, q StockQuery) ([]StockRow, error) {
	join := `i.medication_id = m.medication_id AND i.pharmacy_id = m.pharmacy_id`
	var joinArgs []any
	if q.Filter.Status == domain.StockStatusExpired {
		join += ` AND i.expiration_date < ?`
		joinArgs = append(joinArgs, q.Today)
	}
	if q.Filter.OnlyAvailableBatches {
		join += ` AND i.quantity > 0`
	}

	query := `SELECT ` + medicationColumns + `,
        i.inventory_id, i.batch_number, i.quantity, i.expiration_date, i.last_updated
        FROM medications m
        LEFT JOIN inventory i ON ` + join + `
        WHERE m.pharmacy_id = ?`
	args := append(joinArgs, q.PharmacyID)
	if q.MedicationID != 0 {
		query += ` AND m.medication_id = ?`
		args = append(args, q.MedicationID)
	}
	query += ` ORDER BY m.medication_id, i.expiration_date, i.inventory_id`

	rows := []StockRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, storageErr(r.logger, "select stock", err)
	}
	return rows, nil
}
