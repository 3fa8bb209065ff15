package inventory

import (
	"context"
	"time"

	"medstock/m/domain"
	"medstock/m/internal/repository"
)

// Classifier splits a pharmacy's batches into expired and expiring-soon
// relative to the day it is called on.
type Classifier struct {
	pharmacies repository.PharmacyRepository
	batches    repository.BatchRepository
	opts       options
}

func NewClassifier(pharmacies repository.PharmacyRepository, batches repository.BatchRepository, opts ...Option) *Classifier {
	return &Classifier{pharmacies: pharmacies, batches: batches, opts: newOptions(opts)}
}

// Classify reports every batch expired before today, whatever its quantity,
// and every non-empty batch expiring between today and today+horizonDays
// inclusive. A horizon of 0 selects the configured default.
func (c *Classifier) Classify(ctx context.Context, pharmacyID int64, horizonDays int) (*domain.ExpirationReport, error) {
	defer c.opts.metrics.ObserveDuration("classify", time.Now())

	horizon, err := c.opts.resolveHorizon(horizonDays)
	if err != nil {
		return nil, err
	}
	if err := requirePharmacy(ctx, c.pharmacies, pharmacyID); err != nil {
		return nil, err
	}

	today := domain.DateOf(c.opts.clock())
	rows, err := c.batches.ListExpiringThrough(ctx, pharmacyID, today.AddDays(horizon))
	if err != nil {
		return nil, err
	}
	report := classifyRows(rows, today)
	report.HorizonDays = horizon
	return report, nil
}

// classifyRows partitions rows that all expire on or before the horizon's
// last day. Expired and ExpiringSoon never share a batch.
func classifyRows(rows []repository.ExpiryRow, today domain.Date) *domain.ExpirationReport {
	report := &domain.ExpirationReport{
		AsOf:         today,
		Expired:      []domain.ExpiredBatch{},
		ExpiringSoon: []domain.ExpiringBatch{},
	}
	for _, row := range rows {
		if row.ExpirationDate.Before(today) {
			report.Expired = append(report.Expired, domain.ExpiredBatch{
				BatchID:        row.BatchID,
				MedicationID:   row.MedicationID,
				BrandName:      row.BrandName,
				BatchNumber:    row.BatchNumber,
				Quantity:       row.Quantity,
				ExpirationDate: row.ExpirationDate,
				DaysAgo:        row.ExpirationDate.DaysUntil(today),
			})
			continue
		}
		if row.Quantity <= 0 {
			continue
		}
		report.ExpiringSoon = append(report.ExpiringSoon, domain.ExpiringBatch{
			BatchID:        row.BatchID,
			MedicationID:   row.MedicationID,
			BrandName:      row.BrandName,
			BatchNumber:    row.BatchNumber,
			Quantity:       row.Quantity,
			ExpirationDate: row.ExpirationDate,
			DaysLeft:       today.DaysUntil(row.ExpirationDate),
		})
	}
	return report
}
