package inventory

import (
	"context"
	"strings"
	"time"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
	"medstock/m/internal/repository"
)

// Ledger owns every change to batch quantities.
type Ledger struct {
	pharmacies repository.PharmacyRepository
	batches    repository.BatchRepository
	opts       options
}

func NewLedger(pharmacies repository.PharmacyRepository, batches repository.BatchRepository, opts ...Option) *Ledger {
	return &Ledger{pharmacies: pharmacies, batches: batches, opts: newOptions(opts)}
}

func validateNewBatch(in domain.NewBatch) error {
	switch {
	case in.MedicationID <= 0:
		return apperr.Validation("medication_id", "is required")
	case in.BatchNumber == "":
		return apperr.Validation("batch_number", "is required")
	case in.Quantity <= 0:
		return apperr.Validation("quantity", "must be greater than zero")
	case in.ExpirationDate.IsZero():
		return apperr.Validation("expiration_date", "is required")
	}
	return nil
}

func validateBatchUpdate(upd domain.BatchUpdate) error {
	switch {
	case upd.BatchNumber == "":
		return apperr.Validation("batch_number", "is required")
	case upd.Quantity < 0:
		return apperr.Validation("quantity", "must not be negative")
	case upd.ExpirationDate.IsZero():
		return apperr.Validation("expiration_date", "is required")
	}
	return nil
}

func validateBatchID(id int64) error {
	if id <= 0 {
		return apperr.Validation("inventory_id", "must be positive")
	}
	return nil
}

func validateDelta(delta int64) error {
	if delta <= 0 {
		return apperr.Validation("quantity", "must be a positive integer")
	}
	return nil
}

// AddBatch records a newly received batch and returns its id. The
// medication must belong to the pharmacy.
func (l *Ledger) AddBatch(ctx context.Context, pharmacyID int64, in domain.NewBatch) (id int64, err error) {
	defer l.opts.observe("add", time.Now(), &err)

	in.BatchNumber = strings.TrimSpace(in.BatchNumber)
	if err := validateNewBatch(in); err != nil {
		return 0, err
	}
	if err := requirePharmacy(ctx, l.pharmacies, pharmacyID); err != nil {
		return 0, err
	}
	id, err = l.batches.Insert(ctx, pharmacyID, in)
	if err != nil {
		return 0, err
	}
	l.opts.logger.Debug("batch added", "pharmacy_id", pharmacyID, "inventory_id", id, "quantity", in.Quantity)
	return id, nil
}

// UpdateBatch replaces the batch number, quantity and expiration date of a
// batch. A quantity of zero is accepted.
func (l *Ledger) UpdateBatch(ctx context.Context, pharmacyID, batchID int64, upd domain.BatchUpdate) (b *domain.Batch, err error) {
	defer l.opts.observe("update", time.Now(), &err)

	upd.BatchNumber = strings.TrimSpace(upd.BatchNumber)
	if err := validateBatchID(batchID); err != nil {
		return nil, err
	}
	if err := validateBatchUpdate(upd); err != nil {
		return nil, err
	}
	if err := requirePharmacy(ctx, l.pharmacies, pharmacyID); err != nil {
		return nil, err
	}
	return l.batches.Update(ctx, pharmacyID, batchID, upd)
}

func (l *Ledger) DeleteBatch(ctx context.Context, pharmacyID, batchID int64) (err error) {
	defer l.opts.observe("delete", time.Now(), &err)

	if err := validateBatchID(batchID); err != nil {
		return err
	}
	if err := requirePharmacy(ctx, l.pharmacies, pharmacyID); err != nil {
		return err
	}
	if err := l.batches.Delete(ctx, pharmacyID, batchID); err != nil {
		return err
	}
	l.opts.logger.Debug("batch deleted", "pharmacy_id", pharmacyID, "inventory_id", batchID)
	return nil
}

func (l *Ledger) IncreaseQuantity(ctx context.Context, pharmacyID, batchID, delta int64) (b *domain.Batch, err error) {
	defer l.opts.observe("increase", time.Now(), &err)

	if err := validateBatchID(batchID); err != nil {
		return nil, err
	}
	if err := validateDelta(delta); err != nil {
		return nil, err
	}
	if err := requirePharmacy(ctx, l.pharmacies, pharmacyID); err != nil {
		return nil, err
	}
	return l.batches.Increase(ctx, pharmacyID, batchID, delta)
}

// DecreaseQuantity deducts delta units from a batch. A deduction larger
// than the batch holds fails with *apperr.InsufficientStockError and leaves
// the batch untouched, also when other deductions run concurrently.
func (l *Ledger) DecreaseQuantity(ctx context.Context, pharmacyID, batchID, delta int64) (b *domain.Batch, err error) {
	defer l.opts.observe("decrease", time.Now(), &err)

	if err := validateBatchID(batchID); err != nil {
		return nil, err
	}
	if err := validateDelta(delta); err != nil {
		return nil, err
	}
	if err := requirePharmacy(ctx, l.pharmacies, pharmacyID); err != nil {
		return nil, err
	}
	return l.batches.Decrease(ctx, pharmacyID, batchID, delta)
}

// ListBatches lists the pharmacy's batches, optionally for one medication,
// soonest expiring first.
func (l *Ledger) ListBatches(ctx context.Context, pharmacyID int64, medicationID *int64) ([]domain.Batch, error) {
	if medicationID != nil && *medicationID <= 0 {
		return nil, apperr.Validation("medication_id", "must be positive")
	}
	if err := requirePharmacy(ctx, l.pharmacies, pharmacyID); err != nil {
		return nil, err
	}
	return l.batches.List(ctx, pharmacyID, medicationID)
}
