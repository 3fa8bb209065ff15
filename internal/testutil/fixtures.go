package testutil

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"medstock/m/domain"
)

// Now is the fixed instant tests run at; Today is its calendar day.
var (
	Now   = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	Today = domain.DateOf(Now)
)

// Clock returns Now.
func Clock() time.Time { return Now }

const sqliteTimestamp = "2006-01-02 15:04:05"

func ptr[T any](v T) *T { return &v }

// FixturePharmacy creates a test pharmacy with sensible defaults.
func FixturePharmacy(overrides ...func(*domain.Pharmacy)) *domain.Pharmacy {
	p := &domain.Pharmacy{
		Name:        "Central Pharmacy",
		Address:     "Bole Road, Addis Ababa",
		Latitude:    ptr(9.0054),
		Longitude:   ptr(38.7636),
		PhoneNumber: "+251911000000",
		Email:       "central@example.com",
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// InsertPharmacy stores a fixture pharmacy and returns it with its ID set.
func InsertPharmacy(t *testing.T, db *sqlx.DB, overrides ...func(*domain.Pharmacy)) *domain.Pharmacy {
	t.Helper()

	p := FixturePharmacy(overrides...)
	err := db.QueryRowx(db.Rebind(`INSERT INTO pharmacies (name, address, latitude, longitude, phone_number, email)
        VALUES (?, ?, ?, ?, ?, ?) RETURNING pharmacy_id`),
		p.Name, p.Address, p.Latitude, p.Longitude, p.PhoneNumber, p.Email).Scan(&p.ID)
	if err != nil {
		t.Fatalf("failed to insert pharmacy: %v", err)
	}
	return p
}

// InsertCategory stores a category for the pharmacy and returns its ID.
func InsertCategory(t *testing.T, db *sqlx.DB, pharmacyID int64, name string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowx(db.Rebind(`INSERT INTO medication_categories (pharmacy_id, name) VALUES (?, ?) RETURNING category_id`),
		pharmacyID, name).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert category: %v", err)
	}
	return id
}

// FixtureMedication creates a test medication with sensible defaults.
func FixtureMedication(pharmacyID, categoryID int64, overrides ...func(*domain.Medication)) *domain.Medication {
	m := &domain.Medication{
		PharmacyID:   pharmacyID,
		BrandName:    "Panadol",
		GenericName:  "Paracetamol",
		DosageForm:   domain.DosageTablet,
		Strength:     "500mg",
		Manufacturer: "GSK",
		CategoryID:   categoryID,
		ReorderPoint: 10,
		Description:  "Pain reliever",
	}
	for _, override := range overrides {
		override(m)
	}
	return m
}

// InsertMedication stores a fixture medication, creating a category first,
// and returns it with its ID set. A non-zero CreatedAt is persisted as is.
func InsertMedication(t *testing.T, db *sqlx.DB, pharmacyID int64, overrides ...func(*domain.Medication)) *domain.Medication {
	t.Helper()

	categoryID := InsertCategory(t, db, pharmacyID, "General")
	m := FixtureMedication(pharmacyID, categoryID, overrides...)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = Now
	}
	created := m.CreatedAt.UTC().Format(sqliteTimestamp)
	err := db.QueryRowx(db.Rebind(`INSERT INTO medications
        (pharmacy_id, brand_name, generic_name, dosage_form, strength, manufacturer, category_id, reorder_point, description, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING medication_id`),
		m.PharmacyID, m.BrandName, m.GenericName, m.DosageForm, m.Strength, m.Manufacturer,
		m.CategoryID, m.ReorderPoint, m.Description, created, created).Scan(&m.ID)
	if err != nil {
		t.Fatalf("failed to insert medication: %v", err)
	}
	return m
}

// InsertBatch stores a batch directly, bypassing ledger validation.
func InsertBatch(t *testing.T, db *sqlx.DB, pharmacyID, medicationID int64, number string, quantity int64, expires domain.Date) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowx(db.Rebind(`INSERT INTO inventory (pharmacy_id, medication_id, batch_number, quantity, expiration_date)
        VALUES (?, ?, ?, ?, ?) RETURNING inventory_id`),
		pharmacyID, medicationID, number, quantity, expires).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert batch: %v", err)
	}
	return id
}

// BatchQuantity reads a batch's stored quantity.
func BatchQuantity(t *testing.T, db *sqlx.DB, batchID int64) int64 {
	t.Helper()

	var q int64
	if err := db.Get(&q, db.Rebind(`SELECT quantity FROM inventory WHERE inventory_id = ?`), batchID); err != nil {
		t.Fatalf("failed to read batch %d: %v", batchID, err)
	}
	return q
}
