package repository

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
	"medstock/m/internal/testutil"
)

func TestBatchRepository_InsertChecksOwnership(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	home := testutil.InsertPharmacy(t, db)
	other := testutil.InsertPharmacy(t, db, func(p *domain.Pharmacy) { p.Name = "Other" })
	med := testutil.InsertMedication(t, db, home.ID)

	in := domain.NewBatch{
		MedicationID:   med.ID,
		BatchNumber:    "LOT-1",
		Quantity:       20,
		ExpirationDate: testutil.Today.AddDays(90),
	}
	id, err := repo.Insert(ctx, home.ID, in)
	require.NoError(t, err)
	assert.Positive(t, id)

	stored, err := repo.Get(ctx, home.ID, id)
	require.NoError(t, err)
	assert.Equal(t, "LOT-1", stored.BatchNumber)
	assert.Equal(t, int64(20), stored.Quantity)
	assert.True(t, stored.ExpirationDate.Equal(in.ExpirationDate))

	_, err = repo.Insert(ctx, other.ID, in)
	assert.True(t, apperr.IsNotFound(err), "medication of another pharmacy")
	testutil.AssertRowCount(t, db, "inventory", 1)
}

func TestBatchRepository_ScopedToPharmacy(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	home := testutil.InsertPharmacy(t, db)
	other := testutil.InsertPharmacy(t, db)
	med := testutil.InsertMedication(t, db, home.ID)
	batchID := testutil.InsertBatch(t, db, home.ID, med.ID, "A", 10, testutil.Today.AddDays(30))

	_, err := repo.Get(ctx, other.ID, batchID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = repo.Update(ctx, other.ID, batchID, domain.BatchUpdate{BatchNumber: "B", Quantity: 1, ExpirationDate: testutil.Today})
	assert.True(t, apperr.IsNotFound(err))

	_, err = repo.Increase(ctx, other.ID, batchID, 5)
	assert.True(t, apperr.IsNotFound(err))

	_, err = repo.Decrease(ctx, other.ID, batchID, 5)
	assert.True(t, apperr.IsNotFound(err))

	assert.True(t, apperr.IsNotFound(repo.Delete(ctx, other.ID, batchID)))
	assert.Equal(t, int64(10), testutil.BatchQuantity(t, db, batchID))
}

func TestBatchRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	p := testutil.InsertPharmacy(t, db)
	med := testutil.InsertMedication(t, db, p.ID)
	batchID := testutil.InsertBatch(t, db, p.ID, med.ID, "A", 10, testutil.Today.AddDays(30))

	newExpiry := testutil.Today.AddDays(60)
	b, err := repo.Update(ctx, p.ID, batchID, domain.BatchUpdate{BatchNumber: "A-2", Quantity: 0, ExpirationDate: newExpiry})
	require.NoError(t, err)
	assert.Equal(t, "A-2", b.BatchNumber)
	assert.Equal(t, int64(0), b.Quantity)
	assert.True(t, b.ExpirationDate.Equal(newExpiry))
	assert.Equal(t, med.ID, b.MedicationID)
}

func TestBatchRepository_IncreaseDecrease(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	p := testutil.InsertPharmacy(t, db)
	med := testutil.InsertMedication(t, db, p.ID)
	batchID := testutil.InsertBatch(t, db, p.ID, med.ID, "A", 3, testutil.Today.AddDays(30))

	b, err := repo.Increase(ctx, p.ID, batchID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.Quantity)

	b, err = repo.Decrease(ctx, p.ID, batchID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Quantity)

	_, err = repo.Decrease(ctx, p.ID, batchID, 1)
	var short *apperr.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, int64(0), short.Available)
	assert.Equal(t, int64(1), short.Requested)
	assert.Equal(t, int64(0), testutil.BatchQuantity(t, db, batchID))

	_, err = repo.Decrease(ctx, p.ID, 9999, 1)
	assert.True(t, apperr.IsNotFound(err))
}

func TestBatchRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	p := testutil.InsertPharmacy(t, db)
	med := testutil.InsertMedication(t, db, p.ID)
	batchID := testutil.InsertBatch(t, db, p.ID, med.ID, "A", 3, testutil.Today)

	require.NoError(t, repo.Delete(ctx, p.ID, batchID))
	testutil.AssertRowCount(t, db, "inventory", 0)
	assert.True(t, apperr.IsNotFound(repo.Delete(ctx, p.ID, batchID)))
}

func TestBatchRepository_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	p := testutil.InsertPharmacy(t, db)
	panadol := testutil.InsertMedication(t, db, p.ID)
	amox := testutil.InsertMedication(t, db, p.ID, func(m *domain.Medication) { m.BrandName = "Amoxil" })
	late := testutil.InsertBatch(t, db, p.ID, panadol.ID, "late", 1, testutil.Today.AddDays(100))
	early := testutil.InsertBatch(t, db, p.ID, panadol.ID, "early", 1, testutil.Today.AddDays(10))
	other := testutil.InsertBatch(t, db, p.ID, amox.ID, "amox", 1, testutil.Today.AddDays(50))

	all, err := repo.List(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{early, other, late}, []int64{all[0].ID, all[1].ID, all[2].ID})

	only, err := repo.List(ctx, p.ID, &panadol.ID)
	require.NoError(t, err)
	require.Len(t, only, 2)
	assert.Equal(t, early, only[0].ID)

	none, err := repo.List(ctx, p.ID+100, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBatchRepository_ListExpiringThrough(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	p := testutil.InsertPharmacy(t, db)
	med := testutil.InsertMedication(t, db, p.ID)
	old := testutil.InsertBatch(t, db, p.ID, med.ID, "old", 0, testutil.Today.AddDays(-400))
	edge := testutil.InsertBatch(t, db, p.ID, med.ID, "edge", 5, testutil.Today.AddDays(30))
	testutil.InsertBatch(t, db, p.ID, med.ID, "far", 5, testutil.Today.AddDays(31))

	rows, err := repo.ListExpiringThrough(ctx, p.ID, testutil.Today.AddDays(30))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, old, rows[0].BatchID)
	assert.Equal(t, edge, rows[1].BatchID)
	assert.Equal(t, "Panadol", rows[1].BrandName)
}

func TestBatchRepository_IncreaseRejectsOverflow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBatchRepository(db, nil)
	ctx := context.Background()

	p := testutil.InsertPharmacy(t, db)
	med := testutil.InsertMedication(t, db, p.ID)
	batchID := testutil.InsertBatch(t, db, p.ID, med.ID, "A", 3, testutil.Today.AddDays(30))

	_, err := repo.Increase(ctx, p.ID, batchID, math.MaxInt64)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, int64(3), testutil.BatchQuantity(t, db, batchID))

	b, err := repo.Increase(ctx, p.ID, batchID, math.MaxInt64-3)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), b.Quantity)

	_, err = repo.Increase(ctx, p.ID, batchID, 1)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, int64(math.MaxInt64), testutil.BatchQuantity(t, db, batchID))
}
