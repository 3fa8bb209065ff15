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

type PharmacyRepository interface {
	Create(ctx context.Context, p *domain.Pharmacy) error
	GetByID(ctx context.Context, id int64) (*domain.Pharmacy, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type sqlPharmacyRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPharmacyRepository(db *sqlx.DB, logger *slog.Logger) PharmacyRepository {
	return &sqlPharmacyRepository{db: db, logger: orDefault(logger)}
}

func (r *sqlPharmacyRepository) Create(ctx context.Context, p *domain.Pharmacy) error {
	query := r.db.Rebind(`INSERT INTO pharmacies (name, address, latitude, longitude, phone_number, email)
        VALUES (?, ?, ?, ?, ?, ?) RETURNING pharmacy_id`)
	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.Address, p.Latitude, p.Longitude, p.PhoneNumber, p.Email,
	).Scan(&p.ID)
	return storageErr(r.logger, "insert pharmacy", err)
}

func (r *sqlPharmacyRepository) GetByID(ctx context.Context, id int64) (*domain.Pharmacy, error) {
	var p domain.Pharmacy
	query := r.db.Rebind(`SELECT pharmacy_id, name, address, latitude, longitude, phone_number, email, created_at
        FROM pharmacies WHERE pharmacy_id = ?`)
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("pharmacy", id)
		}
		return nil, storageErr(r.logger, "get pharmacy", err)
	}
	return &p, nil
}

func (r *sqlPharmacyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM pharmacies WHERE pharmacy_id = ?`)
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		return false, storageErr(r.logger, "check pharmacy", err)
	}
	return n > 0, nil
}
