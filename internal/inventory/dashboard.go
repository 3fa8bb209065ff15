package inventory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
	"medstock/m/internal/repository"
)

const dashboardListSize = 5

// Dashboard summarises one pharmacy from the stock views and the
// expiration report.
type Dashboard struct {
	pharmacies repository.PharmacyRepository
	aggregator *Aggregator
	classifier *Classifier
	opts       options
}

func NewDashboard(pharmacies repository.PharmacyRepository, aggregator *Aggregator, classifier *Classifier, opts ...Option) *Dashboard {
	return &Dashboard{pharmacies: pharmacies, aggregator: aggregator, classifier: classifier, opts: newOptions(opts)}
}

// Summary computes the dashboard afresh. horizonDays follows the same rules
// as Classifier.Classify.
func (d *Dashboard) Summary(ctx context.Context, pharmacyID int64, horizonDays int) (*domain.Dashboard, error) {
	defer d.opts.metrics.ObserveDuration("dashboard", time.Now())

	if pharmacyID <= 0 {
		return nil, apperr.Validation("pharmacy_id", "must be positive")
	}
	pharmacy, err := d.pharmacies.GetByID(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	report, err := d.classifier.Classify(ctx, pharmacyID, horizonDays)
	if err != nil {
		return nil, err
	}
	views, err := d.aggregator.StockByPharmacy(ctx, pharmacyID, domain.StockFilter{})
	if err != nil {
		return nil, err
	}

	out := &domain.Dashboard{
		Pharmacy:          pharmacy.Contact(),
		AsOf:              report.AsOf,
		HorizonDays:       report.HorizonDays,
		ReorderList:       []domain.ReorderItem{},
		RecentMedications: recentMedications(views),
		ExpiringSoon:      upcomingExpiries(views, report.AsOf),
	}
	out.Stats.ExpiredBatches = int64(len(report.Expired))
	out.Stats.NearExpiry = int64(len(report.ExpiringSoon))
	out.Stats.TotalMedications = int64(len(views))

	for _, v := range views {
		out.Stats.TotalBatches += int64(len(v.Batches))
		out.Stats.TotalQuantity += v.TotalQuantity
		// A medication without batches has no stock at all, whatever its
		// reorder point.
		if len(v.Batches) == 0 || v.TotalQuantity < v.ReorderPoint {
			out.Stats.ReorderNeeded++
			out.ReorderList = append(out.ReorderList, domain.ReorderItem{
				MedicationID:  v.ID,
				BrandName:     v.BrandName,
				TotalQuantity: v.TotalQuantity,
				ReorderPoint:  v.ReorderPoint,
			})
		}
		if v.TotalQuantity == 0 {
			out.Stats.OutOfStock++
		}
	}
	return out, nil
}

func recentMedications(views []domain.StockView) []domain.RecentMedication {
	sorted := slices.Clone(views)
	slices.SortFunc(sorted, func(a, b domain.StockView) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	recent := []domain.RecentMedication{}
	for _, v := range sorted[:min(dashboardListSize, len(sorted))] {
		recent = append(recent, domain.RecentMedication{
			MedicationID: v.ID,
			BrandName:    v.BrandName,
			Strength:     v.Strength,
			Manufacturer: v.Manufacturer,
			CreatedAt:    v.CreatedAt,
		})
	}
	return recent
}

// upcomingExpiries lists the non-empty batches expiring today or later,
// soonest first.
func upcomingExpiries(views []domain.StockView, today domain.Date) []domain.UpcomingExpiry {
	upcoming := []domain.UpcomingExpiry{}
	for _, v := range views {
		for _, b := range v.Batches {
			if b.Quantity <= 0 || b.ExpirationDate.Before(today) {
				continue
			}
			upcoming = append(upcoming, domain.UpcomingExpiry{
				BatchID:        b.ID,
				BatchNumber:    b.BatchNumber,
				ExpirationDate: b.ExpirationDate,
				Quantity:       b.Quantity,
				BrandName:      v.BrandName,
				Strength:       v.Strength,
			})
		}
	}
	slices.SortFunc(upcoming, func(a, b domain.UpcomingExpiry) int {
		if c := a.ExpirationDate.Compare(b.ExpirationDate); c != 0 {
			return c
		}
		return cmp.Compare(a.BatchID, b.BatchID)
	})
	return upcoming[:min(dashboardListSize, len(upcoming))]
}
