package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstock/m/internal/config"
	"medstock/m/internal/database"
)

func TestRun_CreatesSchemaIdempotently(t *testing.T) {
	db, err := database.Connect(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Run(db))
	require.NoError(t, Run(db), "second run must be a no-op")

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	assert.Equal(t, []string{"inventory", "medication_categories", "medications", "pharmacies"}, tables)
}

func TestRun_QuantityCheckConstraint(t *testing.T) {
	db, err := database.Connect(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Run(db))

	db.MustExec(`INSERT INTO pharmacies (name) VALUES ('Central')`)
	db.MustExec(`INSERT INTO medication_categories (pharmacy_id, name) VALUES (1, 'Analgesics')`)
	db.MustExec(`INSERT INTO medications (pharmacy_id, brand_name, generic_name, dosage_form, strength, manufacturer, category_id)
        VALUES (1, 'Panadol', 'Paracetamol', 'tablet', '500mg', 'GSK', 1)`)

	_, err = db.Exec(`INSERT INTO inventory (pharmacy_id, medication_id, batch_number, quantity, expiration_date) VALUES (1, 1, 'B1', -1, '2030-01-01')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO medications (pharmacy_id, brand_name, generic_name, dosage_form, strength, manufacturer, category_id)
        VALUES (1, 'X', 'Y', 'powder', '1g', 'Z', 1)`)
	assert.Error(t, err)
}
