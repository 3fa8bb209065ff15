package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kilometers is a distance that encodes NaN as JSON null.
type Kilometers float64

func (k Kilometers) Known() bool { return !math.IsNaN(float64(k)) }

func (k Kilometers) MarshalJSON() ([]byte, error) {
	if !k.Known() || math.IsInf(float64(k), 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(k), 'f', 3, 64)), nil
}

func (k *Kilometers) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*k = Kilometers(math.NaN())
		return nil
	}
	*k = Kilometers(*v)
	return nil
}

// AvailabilityResult is one medication in stock at one pharmacy, as seen
// from a requester's location.
type AvailabilityResult struct {
	MedicationID    int64      `db:"medication_id" json:"medication_id"`
	BrandName       string     `db:"brand_name" json:"brand_name"`
	GenericName     string     `db:"generic_name" json:"generic_name"`
	DosageForm      DosageForm `db:"dosage_form" json:"dosage_form"`
	Strength        string     `db:"strength" json:"strength"`
	Manufacturer    string     `db:"manufacturer" json:"manufacturer"`
	Description     string     `db:"description" json:"description"`
	CategoryName    string     `db:"category_name" json:"category_name"`
	Quantity        int64      `db:"quantity" json:"quantity"`
	BatchCount      int64      `db:"batch_count" json:"batch_count"`
	NearestExpiry   Date       `db:"nearest_expiry" json:"nearest_expiry"`
	PharmacyID      int64      `db:"pharmacy_id" json:"pharmacy_id"`
	PharmacyName    string     `db:"pharmacy_name" json:"pharmacy_name"`
	PharmacyAddress string     `db:"pharmacy_address" json:"pharmacy_address"`
	PharmacyPhone   string     `db:"pharmacy_phone" json:"pharmacy_phone"`
	PharmacyEmail   string     `db:"pharmacy_email" json:"pharmacy_email"`
	Latitude        *float64   `db:"latitude" json:"latitude"`
	Longitude       *float64   `db:"longitude" json:"longitude"`
	Distance        Kilometers `db:"-" json:"distance_km"`
	NavigationURL   string     `db:"-" json:"navigation_url"`
}
