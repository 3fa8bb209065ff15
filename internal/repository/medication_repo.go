package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"medstock/m/domain"
	"medstock/m/internal/apperr"
)

// MedicationRepository covers the slice of catalog management the ledger
// depends on: categories and medications scoped to a pharmacy.
type MedicationRepository interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	Create(ctx context.Context, m *domain.Medication) error
	GetByID(ctx context.Context, pharmacyID, id int64) (*domain.Medication, error)
}

type sqlMedicationRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewMedicationRepository(db *sqlx.DB, logger *slog.Logger) MedicationRepository {
	return &sqlMedicationRepository{db: db, logger: orDefault(logger)}
}

const medicationColumns = `m.medication_id, m.pharmacy_id, m.brand_name, m.generic_name, m.dosage_form,
        m.strength, m.manufacturer, m.category_id, m.reorder_point, m.description, m.created_at, m.updated_at`

func (r *sqlMedicationRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.Name == "" {
		return apperr.Validation("name", "is required")
	}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, `SELECT COUNT(*) FROM pharmacies WHERE pharmacy_id = ?`, c.PharmacyID)
		if err != nil {
			return err
		}
		if !found {
			return apperr.NotFound("pharmacy", c.PharmacyID)
		}
		return tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO medication_categories (pharmacy_id, name) VALUES (?, ?) RETURNING category_id`),
			c.PharmacyID, c.Name).Scan(&c.ID)
	})
	return storageErr(r.logger, "insert category", err)
}

// Create validates m and inserts it only when its category belongs to the
// same pharmacy.
func (r *sqlMedicationRepository) Create(ctx context.Context, m *domain.Medication) error {
	if err := m.Validate(); err != nil {
		return err
	}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, `SELECT COUNT(*) FROM medication_categories WHERE category_id = ? AND pharmacy_id = ?`,
			m.CategoryID, m.PharmacyID)
		if err != nil {
			return err
		}
		if !found {
			return apperr.NotFound("category", m.CategoryID)
		}
		query := tx.Rebind(`INSERT INTO medications
            (pharmacy_id, brand_name, generic_name, dosage_form, strength, manufacturer, category_id, reorder_point, description)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING medication_id`)
		return tx.QueryRowxContext(ctx, query,
			m.PharmacyID, m.BrandName, m.GenericName, m.DosageForm, m.Strength, m.Manufacturer,
			m.CategoryID, m.ReorderPoint, m.Description,
		).Scan(&m.ID)
	})
	return storageErr(r.logger, "insert medication", err)
}

func (r *sqlMedicationRepository) GetByID(ctx context.Context, pharmacyID, id int64) (*domain.Medication, error) {
	var m domain.Medication
	query := r.db.Rebind(`SELECT ` + medicationColumns + ` FROM medications m
        WHERE m.medication_id = ? AND m.pharmacy_id = ?`)
	if err := r.db.GetContext(ctx, &m, query, id, pharmacyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("medication", id)
		}
		return nil, storageErr(r.logger, "get medication", err)
	}
	return &m, nil
}
