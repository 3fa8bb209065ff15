package domain

import "time"

// Batch is one lot of a medication held by a pharmacy.
type Batch struct {
	ID             int64     `db:"inventory_id" json:"inventory_id"`
	PharmacyID     int64     `db:"pharmacy_id" json:"pharmacy_id"`
	MedicationID   int64     `db:"medication_id" json:"medication_id"`
	BatchNumber    string    `db:"batch_number" json:"batch_number"`
	Quantity       int64     `db:"quantity" json:"quantity"`
	ExpirationDate Date      `db:"expiration_date" json:"expiration_date"`
	LastUpdated    time.Time `db:"last_updated" json:"last_updated"`
}

// NewBatch is the intake payload for a batch.
type NewBatch struct {
	MedicationID   int64  `json:"medication_id"`
	BatchNumber    string `json:"batch_number"`
	Quantity       int64  `json:"quantity"`
	ExpirationDate Date   `json:"expiration_date"`
}

// BatchUpdate replaces every mutable field of a batch.
type BatchUpdate struct {
	BatchNumber    string `json:"batch_number"`
	Quantity       int64  `json:"quantity"`
	ExpirationDate Date   `json:"expiration_date"`
}
