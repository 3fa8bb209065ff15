package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medstock/m/domain"
	"medstock/m/internal/repository"
)

type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) Create(ctx context.Context, p *domain.Pharmacy) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPharmacyRepository) GetByID(ctx context.Context, id int64) (*domain.Pharmacy, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Pharmacy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPharmacyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockMedicationRepository struct {
	mock.Mock
}

func (m *MockMedicationRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockMedicationRepository) Create(ctx context.Context, med *domain.Medication) error {
	args := m.Called(ctx, med)
	return args.Error(0)
}

func (m *MockMedicationRepository) GetByID(ctx context.Context, pharmacyID, id int64) (*domain.Medication, error) {
	args := m.Called(ctx, pharmacyID, id)
	if med := args.Get(0); med != nil {
		return med.(*domain.Medication), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Insert(ctx context.Context, pharmacyID int64, in domain.NewBatch) (int64, error) {
	args := m.Called(ctx, pharmacyID, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBatchRepository) Get(ctx context.Context, pharmacyID, batchID int64) (*domain.Batch, error) {
	args := m.Called(ctx, pharmacyID, batchID)
	if b := args.Get(0); b != nil {
		return b.(*domain.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBatchRepository) Update(ctx context.Context, pharmacyID, batchID int64, upd domain.BatchUpdate) (*domain.Batch, error) {
	args := m.Called(ctx, pharmacyID, batchID, upd)
	if b := args.Get(0); b != nil {
		return b.(*domain.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBatchRepository) Delete(ctx context.Context, pharmacyID, batchID int64) error {
	args := m.Called(ctx, pharmacyID, batchID)
	return args.Error(0)
}

func (m *MockBatchRepository) Increase(ctx context.Context, pharmacyID, batchID, delta int64) (*domain.Batch, error) {
	args := m.Called(ctx, pharmacyID, batchID, delta)
	if b := args.Get(0); b != nil {
		return b.(*domain.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBatchRepository) Decrease(ctx context.Context, pharmacyID, batchID, delta int64) (*domain.Batch, error) {
	args := m.Called(ctx, pharmacyID, batchID, delta)
	if b := args.Get(0); b != nil {
		return b.(*domain.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBatchRepository) List(ctx context.Context, pharmacyID int64, medicationID *int64) ([]domain.Batch, error) {
	args := m.Called(ctx, pharmacyID, medicationID)
	if list := args.Get(0); list != nil {
		return list.([]domain.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBatchRepository) ListExpiringThrough(ctx context.Context, pharmacyID int64, through domain.Date) ([]repository.ExpiryRow, error) {
	args := m.Called(ctx, pharmacyID, through)
	if rows := args.Get(0); rows != nil {
		return rows.([]repository.ExpiryRow), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) StockRows(ctx context.Context, q repository.StockQuery) ([]repository.StockRow, error) {
	args := m.Called(ctx, q)
	if rows := args.Get(0); rows != nil {
		return rows.([]repository.StockRow), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) AvailableStock(ctx context.Context, text string) ([]domain.AvailabilityResult, error) {
	args := m.Called(ctx, text)
	if results := args.Get(0); results != nil {
		return results.([]domain.AvailabilityResult), args.Error(1)
	}
	return nil, args.Error(1)
}
