package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"

	"github.com/jmoiron/sqlx"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
)

// BatchRepository persists inventory batches. Every method is scoped to
// the owning pharmacy; a batch of another pharmacy is reported as not found.
type BatchRepository interface {
	Insert(ctx context.Context, pharmacyID int64, in domain.NewBatch) (int64, error)
	Get(ctx context.Context, pharmacyID, batchID int64) (*domain.Batch, error)
	Update(ctx context.Context, pharmacyID, batchID int64, upd domain.BatchUpdate) (*domain.Batch, error)
	Delete(ctx context.Context, pharmacyID, batchID int64) error
	Increase(ctx context.Context, pharmacyID, batchID, delta int64) (*domain.Batch, error)
	Decrease(ctx context.Context, pharmacyID, batchID, delta int64) (*domain.Batch, error)
	List(ctx context.Context, pharmacyID int64, medicationID *int64) ([]domain.Batch, error)
	ListExpiringThrough(ctx context.Context, pharmacyID int64, through domain.Date) ([]ExpiryRow, error)
}

// ExpiryRow is a batch joined with its medication's brand name.
type ExpiryRow struct {
	BatchID        int64       `db:"inventory_id"`
	MedicationID   int64       `db:"medication_id"`
	BrandName      string      `db:"brand_name"`
	BatchNumber    string      `db:"batch_number"`
	Quantity       int64       `db:"quantity"`
	ExpirationDate domain.Date `db:"expiration_date"`
}

type sqlBatchRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewBatchRepository(db *sqlx.DB, logger *slog.Logger) BatchRepository {
	return &sqlBatchRepository{db: db, logger: orDefault(logger)}
}

const batchColumns = `inventory_id, pharmacy_id, medication_id, batch_number, quantity, expiration_date, last_updated`

func getBatch(ctx context.Context, q sqlx.ExtContext, pharmacyID, batchID int64) (*domain.Batch, error) {
	var b domain.Batch
	query := q.Rebind(`SELECT ` + batchColumns + ` FROM inventory WHERE inventory_id = ? AND pharmacy_id = ?`)
	if err := sqlx.GetContext(ctx, q, &b, query, batchID, pharmacyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("batch", batchID)
		}
		return nil, err
	}
	return &b, nil
}

// Insert adds a batch for a medication the pharmacy owns. The ownership
// check and the insert share one transaction.
func (r *sqlBatchRepository) Insert(ctx context.Context, pharmacyID int64, in domain.NewBatch) (int64, error) {
	var id int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := exists(ctx, tx, `SELECT COUNT(*) FROM medications WHERE medication_id = ? AND pharmacy_id = ?`,
			in.MedicationID, pharmacyID)
		if err != nil {
			return err
		}
		if !owned {
			return apperr.NotFound("medication", in.MedicationID)
		}
		query := tx.Rebind(`INSERT INTO inventory (pharmacy_id, medication_id, batch_number, quantity, expiration_date)
            VALUES (?, ?, ?, ?, ?) RETURNING inventory_id`)
		return tx.QueryRowxContext(ctx, query,
			pharmacyID, in.MedicationID, in.BatchNumber, in.Quantity, in.ExpirationDate,
		).Scan(&id)
	})
	if err != nil {
		return 0, storageErr(r.logger, "insert batch", err)
	}
	return id, nil
}

func (r *sqlBatchRepository) Get(ctx context.Context, pharmacyID, batchID int64) (*domain.Batch, error) {
	b, err := getBatch(ctx, r.db, pharmacyID, batchID)
	if err != nil {
		return nil, storageErr(r.logger, "get batch", err)
	}
	return b, nil
}

func (r *sqlBatchRepository) Update(ctx context.Context, pharmacyID, batchID int64, upd domain.BatchUpdate) (*domain.Batch, error) {
	var b *domain.Batch
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE inventory
            SET batch_number = ?, quantity = ?, expiration_date = ?, last_updated = CURRENT_TIMESTAMP
            WHERE inventory_id = ? AND pharmacy_id = ?`),
			upd.BatchNumber, upd.Quantity, upd.ExpirationDate, batchID, pharmacyID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return apperr.NotFound("batch", batchID)
		}
		b, err = getBatch(ctx, tx, pharmacyID, batchID)
		return err
	})
	if err != nil {
		return nil, storageErr(r.logger, "update batch", err)
	}
	return b, nil
}

func (r *sqlBatchRepository) Delete(ctx context.Context, pharmacyID, batchID int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM inventory WHERE inventory_id = ? AND pharmacy_id = ?`),
		batchID, pharmacyID)
	if err != nil {
		return storageErr(r.logger, "delete batch", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(r.logger, "delete batch", err)
	}
	if n == 0 {
		return apperr.NotFound("batch", batchID)
	}
	return nil
}

// Increase adds delta units. An addition that would overflow the stored
// quantity changes nothing and fails validation.
func (r *sqlBatchRepository) Increase(ctx context.Context, pharmacyID, batchID, delta int64) (*domain.Batch, error) {
	var b *domain.Batch
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE inventory
            SET quantity = quantity + ?, last_updated = CURRENT_TIMESTAMP
            WHERE inventory_id = ? AND pharmacy_id = ? AND quantity <= ?`),
			delta, batchID, pharmacyID, math.MaxInt64-delta)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		current, err := getBatch(ctx, tx, pharmacyID, batchID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.Validation("quantity", "increase would exceed the maximum batch quantity")
		}
		b = current
		return nil
	})
	if err != nil {
		return nil, storageErr(r.logger, "increase batch", err)
	}
	return b, nil
}

// Decrease deducts delta only while the batch still holds at least delta
// units. The check is part of the UPDATE itself, so concurrent deductions
// against the same row cannot both pass it. When no row changes, the batch
// is re-read to tell a missing batch from a short one.
func (r *sqlBatchRepository) Decrease(ctx context.Context, pharmacyID, batchID, delta int64) (*domain.Batch, error) {
	var b *domain.Batch
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE inventory
            SET quantity = quantity - ?, last_updated = CURRENT_TIMESTAMP
            WHERE inventory_id = ? AND pharmacy_id = ? AND quantity >= ?`),
			delta, batchID, pharmacyID, delta)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		current, err := getBatch(ctx, tx, pharmacyID, batchID)
		if err != nil {
			return err
		}
		if n == 0 {
			return &apperr.InsufficientStockError{BatchID: batchID, Requested: delta, Available: current.Quantity}
		}
		b = current
		return nil
	})
	if err != nil {
		return nil, storageErr(r.logger, "decrease batch", err)
	}
	return b, nil
}

func (r *sqlBatchRepository) List(ctx context.Context, pharmacyID int64, medicationID *int64) ([]domain.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM inventory WHERE pharmacy_id = ?`
	args := []any{pharmacyID}
	if medicationID != nil {
		query += ` AND medication_id = ?`
		args = append(args, *medicationID)
	}
	query += ` ORDER BY expiration_date, inventory_id`

	batches := []domain.Batch{}
	if err := r.db.SelectContext(ctx, &batches, r.db.Rebind(query), args...); err != nil {
		return nil, storageErr(r.logger, "list batches", err)
	}
	return batches, nil
}

// ListExpiringThrough returns every batch of the pharmacy expiring on or
// before through, oldest first, whatever its quantity.
func (r *sqlBatchRepository) ListExpiringThrough(ctx context.Context, pharmacyID int64, through domain.Date) ([]ExpiryRow, error) {
	query := r.db.Rebind(`SELECT i.inventory_id, i.medication_id, m.brand_name, i.batch_number, i.quantity, i.expiration_date
        FROM inventory i
        JOIN medications m ON m.medication_id = i.medication_id AND m.pharmacy_id = i.pharmacy_id
        WHERE i.pharmacy_id = ? AND i.expiration_date <= ?
        ORDER BY i.expiration_date, i.inventory_id`)

	rows := []ExpiryRow{}
	if err := r.db.SelectContext(ctx, &rows, query, pharmacyID, through); err != nil {
		return nil, storageErr(r.logger, "list expiring batches", err)
	}
	return rows, nil
}
