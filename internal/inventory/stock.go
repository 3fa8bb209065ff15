package inventory

import (
	"context"
	"time"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
	"medstock/m/internal/repository"
)

// Aggregator builds per-medication stock views from batch rows.
type Aggregator struct {
	pharmacies repository.PharmacyRepository
	stock      repository.StockRepository
	batches    repository.BatchRepository
	opts       options
}

func NewAggregator(pharmacies repository.PharmacyRepository, stock repository.StockRepository, batches repository.BatchRepository, opts ...Option) *Aggregator {
	return &Aggregator{pharmacies: pharmacies, stock: stock, batches: batches, opts: newOptions(opts)}
}

// StockByPharmacy returns one view per medication the pharmacy owns, in
// medication id order. The filter narrows which batches are summed and
// listed; medications left without batches still appear with a zero total.
func (a *Aggregator) StockByPharmacy(ctx context.Context, pharmacyID int64, filter domain.StockFilter) ([]domain.StockView, error) {
	defer a.opts.metrics.ObserveDuration("stock", time.Now())

	switch filter.Status {
	case domain.StockStatusAll, domain.StockStatusExpired:
	default:
		return nil, apperr.Validation("status", "must be empty or expired")
	}
	if err := requirePharmacy(ctx, a.pharmacies, pharmacyID); err != nil {
		return nil, err
	}
	rows, err := a.stock.StockRows(ctx, repository.StockQuery{
		PharmacyID: pharmacyID,
		Filter:     filter,
		Today:      domain.DateOf(a.opts.clock()),
	})
	if err != nil {
		return nil, err
	}
	return groupStock(rows), nil
}

// StockForMedication returns the view of a single medication.
func (a *Aggregator) StockForMedication(ctx context.Context, pharmacyID, medicationID int64) (*domain.StockView, error) {
	if medicationID <= 0 {
		return nil, apperr.Validation("medication_id", "must be positive")
	}
	if err := requirePharmacy(ctx, a.pharmacies, pharmacyID); err != nil {
		return nil, err
	}
	rows, err := a.stock.StockRows(ctx, repository.StockQuery{
		PharmacyID:   pharmacyID,
		MedicationID: medicationID,
		Today:        domain.DateOf(a.opts.clock()),
	})
	if err != nil {
		return nil, err
	}
	views := groupStock(rows)
	if len(views) == 0 {
		return nil, apperr.NotFound("medication", medicationID)
	}
	return &views[0], nil
}

// StockForBatch returns the view of the medication a batch belongs to.
func (a *Aggregator) StockForBatch(ctx context.Context, pharmacyID, batchID int64) (*domain.StockView, error) {
	if batchID <= 0 {
		return nil, apperr.Validation("inventory_id", "must be positive")
	}
	if err := requirePharmacy(ctx, a.pharmacies, pharmacyID); err != nil {
		return nil, err
	}
	b, err := a.batches.Get(ctx, pharmacyID, batchID)
	if err != nil {
		return nil, err
	}
	return a.StockForMedication(ctx, pharmacyID, b.MedicationID)
}

// groupStock folds rows ordered by medication into views. Rows without a
// batch contribute the medication only.
func groupStock(rows []repository.StockRow) []domain.StockView {
	views := []domain.StockView{}
	for _, row := range rows {
		if n := len(views); n == 0 || views[n-1].ID != row.ID {
			views = append(views, domain.StockView{
				Medication: row.Medication,
				Batches:    []domain.BatchDetail{},
			})
		}
		if !row.BatchID.Valid {
			continue
		}
		view := &views[len(views)-1]
		view.TotalQuantity += row.Quantity.Int64
		view.Batches = append(view.Batches, domain.BatchDetail{
			ID:             row.BatchID.Int64,
			BatchNumber:    row.BatchNumber.String,
			Quantity:       row.Quantity.Int64,
			ExpirationDate: row.ExpirationDate,
			LastUpdated:    row.LastUpdated.Time,
		})
	}
	return views
}
