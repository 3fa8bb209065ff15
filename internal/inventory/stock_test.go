package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
	"medstock/m/internal/testutil"
)

func TestAggregator_StockByPharmacy(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	p := testutil.InsertPharmacy(t, s.db)
	med := testutil.InsertMedication(t, s.db, p.ID)
	empty := testutil.InsertMedication(t, s.db, p.ID, func(m *domain.Medication) { m.BrandName = "Empty" })
	testutil.InsertBatch(t, s.db, p.ID, med.ID, "fresh", 4, testutil.Today.AddDays(5))
	testutil.InsertBatch(t, s.db, p.ID, med.ID, "expired", 3, testutil.Today.AddDays(-2))
	testutil.InsertBatch(t, s.db, p.ID, med.ID, "drained", 0, testutil.Today.AddDays(9))

	views, err := s.aggregator.StockByPharmacy(ctx, p.ID, domain.StockFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, med.ID, views[0].ID)
	assert.Equal(t, int64(7), views[0].TotalQuantity)
	require.Len(t, views[0].Batches, 3)
	assert.Equal(t, "expired", views[0].Batches[0].BatchNumber)

	assert.Equal(t, empty.ID, views[1].ID)
	assert.Equal(t, int64(0), views[1].TotalQuantity)
	assert.Empty(t, views[1].Batches)
	assert.NotNil(t, views[1].Batches)

	t.Run("expired filter", func(t *testing.T) {
		views, err := s.aggregator.StockByPharmacy(ctx, p.ID, domain.StockFilter{Status: domain.StockStatusExpired})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, int64(3), views[0].TotalQuantity)
		require.Len(t, views[0].Batches, 1)
	})

	t.Run("only available", func(t *testing.T) {
		views, err := s.aggregator.StockByPharmacy(ctx, p.ID, domain.StockFilter{OnlyAvailableBatches: true})
		require.NoError(t, err)
		assert.Len(t, views[0].Batches, 2)
		assert.Equal(t, int64(7), views[0].TotalQuantity)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := s.aggregator.StockByPharmacy(ctx, p.ID, domain.StockFilter{Status: "recalled"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown pharmacy", func(t *testing.T) {
		_, err := s.aggregator.StockByPharmacy(ctx, p.ID+50, domain.StockFilter{})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestAggregator_TotalTracksAddedBatches(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	p := testutil.InsertPharmacy(t, s.db)
	med := testutil.InsertMedication(t, s.db, p.ID)

	before, err := s.aggregator.StockForMedication(ctx, p.ID, med.ID)
	require.NoError(t, err)

	_, err = s.ledger.AddBatch(ctx, p.ID, domain.NewBatch{
		MedicationID:   med.ID,
		BatchNumber:    "Q",
		Quantity:       25,
		ExpirationDate: testutil.Today.AddDays(60),
	})
	require.NoError(t, err)

	after, err := s.aggregator.StockForMedication(ctx, p.ID, med.ID)
	require.NoError(t, err)
	assert.Equal(t, before.TotalQuantity+25, after.TotalQuantity)
}

func TestAggregator_StockForMedicationAndBatch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	p := testutil.InsertPharmacy(t, s.db)
	other := testutil.InsertPharmacy(t, s.db)
	med := testutil.InsertMedication(t, s.db, p.ID)
	batchID := testutil.InsertBatch(t, s.db, p.ID, med.ID, "A", 6, testutil.Today.AddDays(5))

	view, err := s.aggregator.StockForBatch(ctx, p.ID, batchID)
	require.NoError(t, err)
	assert.Equal(t, med.ID, view.ID)
	assert.Equal(t, int64(6), view.TotalQuantity)

	_, err = s.aggregator.StockForMedication(ctx, other.ID, med.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = s.aggregator.StockForBatch(ctx, other.ID, batchID)
	assert.True(t, apperr.IsNotFound(err))
}
