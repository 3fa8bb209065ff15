package repository

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"medstock/m/domain"
	"medstock/m/internal/database"
)

type SearchRepository interface {
	// AvailableStock lists every (medication, pharmacy) pair whose brand or
	// generic name contains text and that holds positive stock.
	AvailableStock(ctx context.Context, text string) ([]domain.AvailabilityResult, error)
}

type sqlSearchRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSearchRepository(db *sqlx.DB, logger *slog.Logger) SearchRepository {
	return &sqlSearchRepository{db: db, logger: orDefault(logger)}
}

// AvailableStock matches case-insensitively and literally: LIKE wildcards in
// text are escaped. Blank text matches every medication. Only batches with
// a positive quantity count towards quantity, batch_count and
// nearest_expiry. Rows keep the order their first matching batch was
// received in.
func (r *sqlSearchRepository) AvailableStock(ctx context.Context, text string) ([]domain.AvailabilityResult, error) {
	pattern := containsPattern(strings.TrimSpace(text))
	lower := database.LowerFunc(r.db)
	query := r.db.Rebind(`SELECT
            m.medication_id, m.brand_name, m.generic_name, m.dosage_form, m.strength,
            m.manufacturer, m.description, COALESCE(c.name, '') AS category_name,
            CAST(SUM(i.quantity) AS BIGINT) AS quantity,
            COUNT(i.inventory_id) AS batch_count,
            MIN(i.expiration_date) AS nearest_expiry,
            p.pharmacy_id, p.name AS pharmacy_name, p.address AS pharmacy_address,
            p.phone_number AS pharmacy_phone, p.email AS pharmacy_email,
            p.latitude, p.longitude
        FROM inventory i
        JOIN medications m ON m.medication_id = i.medication_id AND m.pharmacy_id = i.pharmacy_id
        JOIN pharmacies p ON p.pharmacy_id = i.pharmacy_id
        LEFT JOIN medication_categories c ON c.category_id = m.category_id
        WHERE i.quantity > 0
          AND (` + lower + `(m.brand_name) LIKE ? ESCAPE '\' OR ` + lower + `(m.generic_name) LIKE ? ESCAPE '\')
        GROUP BY m.medication_id, m.brand_name, m.generic_name, m.dosage_form, m.strength,
            m.manufacturer, m.description, c.name,
            p.pharmacy_id, p.name, p.address, p.phone_number, p.email, p.latitude, p.longitude
        ORDER BY MIN(i.inventory_id)`)

	results := []domain.AvailabilityResult{}
	if err := r.db.SelectContext(ctx, &results, query, pattern, pattern); err != nil {
		return nil, storageErr(r.logger, "search stock", err)
	}
	return results, nil
}
