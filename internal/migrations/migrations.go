package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"medstock/m/internal/database"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS pharmacies (
            pharmacy_id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            latitude REAL,
            longitude REAL,
            phone_number TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS medication_categories (
            category_id INTEGER PRIMARY KEY AUTOINCREMENT,
            pharmacy_id INTEGER NOT NULL,
            name TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(pharmacy_id) REFERENCES pharmacies(pharmacy_id)
        );`,
	`CREATE TABLE IF NOT EXISTS medications (
            medication_id INTEGER PRIMARY KEY AUTOINCREMENT,
            pharmacy_id INTEGER NOT NULL,
            brand_name TEXT NOT NULL,
            generic_name TEXT NOT NULL,
            dosage_form TEXT NOT NULL CHECK (dosage_form IN ('tablet','capsule','liquid','injection','cream','ointment','syrup')),
            strength TEXT NOT NULL,
            manufacturer TEXT NOT NULL,
            category_id INTEGER NOT NULL,
            reorder_point INTEGER NOT NULL DEFAULT 0,
            description TEXT NOT NULL DEFAULT '',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(pharmacy_id) REFERENCES pharmacies(pharmacy_id),
            FOREIGN KEY(category_id) REFERENCES medication_categories(category_id)
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            inventory_id INTEGER PRIMARY KEY AUTOINCREMENT,
            pharmacy_id INTEGER NOT NULL,
            medication_id INTEGER NOT NULL,
            batch_number TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            expiration_date TEXT NOT NULL,
            last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(pharmacy_id) REFERENCES pharmacies(pharmacy_id),
            FOREIGN KEY(medication_id) REFERENCES medications(medication_id) ON DELETE CASCADE
        );`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_pharmacy_medication ON inventory(pharmacy_id, medication_id);`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_pharmacy_expiration ON inventory(pharmacy_id, expiration_date);`,
	`CREATE INDEX IF NOT EXISTS idx_medications_pharmacy ON medications(pharmacy_id);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS pharmacies (
            pharmacy_id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            latitude DOUBLE PRECISION,
            longitude DOUBLE PRECISION,
            phone_number TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
	`CREATE TABLE IF NOT EXISTS medication_categories (
            category_id BIGSERIAL PRIMARY KEY,
            pharmacy_id BIGINT NOT NULL REFERENCES pharmacies(pharmacy_id),
            name TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
	`CREATE TABLE IF NOT EXISTS medications (
            medication_id BIGSERIAL PRIMARY KEY,
            pharmacy_id BIGINT NOT NULL REFERENCES pharmacies(pharmacy_id),
            brand_name TEXT NOT NULL,
            generic_name TEXT NOT NULL,
            dosage_form TEXT NOT NULL CHECK (dosage_form IN ('tablet','capsule','liquid','injection','cream','ointment','syrup')),
            strength TEXT NOT NULL,
            manufacturer TEXT NOT NULL,
            category_id BIGINT NOT NULL REFERENCES medication_categories(category_id),
            reorder_point BIGINT NOT NULL DEFAULT 0,
            description TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ DEFAULT NOW(),
            updated_at TIMESTAMPTZ DEFAULT NOW()
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            inventory_id BIGSERIAL PRIMARY KEY,
            pharmacy_id BIGINT NOT NULL REFERENCES pharmacies(pharmacy_id),
            medication_id BIGINT NOT NULL REFERENCES medications(medication_id) ON DELETE CASCADE,
            batch_number TEXT NOT NULL,
            quantity BIGINT NOT NULL CHECK (quantity >= 0),
            expiration_date DATE NOT NULL,
            last_updated TIMESTAMPTZ DEFAULT NOW()
        );`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_pharmacy_medication ON inventory(pharmacy_id, medication_id);`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_pharmacy_expiration ON inventory(pharmacy_id, expiration_date);`,
	`CREATE INDEX IF NOT EXISTS idx_medications_pharmacy ON medications(pharmacy_id);`,
}

// Run creates the database schema for the dialect db speaks. All statements
// are applied in one transaction.
func Run(db *sqlx.DB) error {
	schema := sqliteSchema
	if database.IsPostgres(db) {
		schema = postgresSchema
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("starting migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}
