package domain

import (
	"strings"
	"time"

	"medstock/m/internal/apperr"
)

// DosageForm is the physical form a medication is dispensed in.
type DosageForm string

const (
	DosageTablet    DosageForm = "tablet"
	DosageCapsule   DosageForm = "capsule"
	DosageLiquid    DosageForm = "liquid"
	DosageInjection DosageForm = "injection"
	DosageCream     DosageForm = "cream"
	DosageOintment  DosageForm = "ointment"
	DosageSyrup     DosageForm = "syrup"
)

// DosageForms lists every accepted dosage form.
var DosageForms = []DosageForm{
	DosageTablet, DosageCapsule, DosageLiquid, DosageInjection,
	DosageCream, DosageOintment, DosageSyrup,
}

func (f DosageForm) Valid() bool {
	for _, known := range DosageForms {
		if f == known {
			return true
		}
	}
	return false
}

// Category groups medications within one pharmacy.
type Category struct {
	ID         int64     `db:"category_id" json:"category_id"`
	PharmacyID int64     `db:"pharmacy_id" json:"pharmacy_id"`
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Medication is a catalog entry owned by a pharmacy.
type Medication struct {
	ID           int64      `db:"medication_id" json:"medication_id"`
	PharmacyID   int64      `db:"pharmacy_id" json:"pharmacy_id"`
	BrandName    string     `db:"brand_name" json:"brand_name"`
	GenericName  string     `db:"generic_name" json:"generic_name"`
	DosageForm   DosageForm `db:"dosage_form" json:"dosage_form"`
	Strength     string     `db:"strength" json:"strength"`
	Manufacturer string     `db:"manufacturer" json:"manufacturer"`
	CategoryID   int64      `db:"category_id" json:"category_id"`
	ReorderPoint int64      `db:"reorder_point" json:"reorder_point"`
	Description  string     `db:"description" json:"description"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Validate checks required fields and the dosage form enumeration.
// Category ownership is checked against storage when the row is written.
func (m *Medication) Validate() error {
	switch {
	case strings.TrimSpace(m.BrandName) == "":
		return apperr.Validation("brand_name", "is required")
	case strings.TrimSpace(m.GenericName) == "":
		return apperr.Validation("generic_name", "is required")
	case !m.DosageForm.Valid():
		return apperr.Validation("dosage_form", "must be one of tablet, capsule, liquid, injection, cream, ointment, syrup")
	case strings.TrimSpace(m.Strength) == "":
		return apperr.Validation("strength", "is required")
	case strings.TrimSpace(m.Manufacturer) == "":
		return apperr.Validation("manufacturer", "is required")
	case m.CategoryID <= 0:
		return apperr.Validation("category_id", "is required")
	case m.ReorderPoint < 0:
		return apperr.Validation("reorder_point", "must not be negative")
	}
	return nil
}
