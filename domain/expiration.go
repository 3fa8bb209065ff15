package domain

// ExpiredBatch is a batch whose expiration date has passed.
type ExpiredBatch struct {
	BatchID        int64  `json:"inventory_id"`
	MedicationID   int64  `json:"medication_id"`
	BrandName      string `json:"brand_name"`
	BatchNumber    string `json:"batch_number"`
	Quantity       int64  `json:"quantity"`
	ExpirationDate Date   `json:"expiration_date"`
	DaysAgo        int    `json:"days_ago"`
}

// ExpiringBatch is a non-empty batch expiring within the horizon.
type ExpiringBatch struct {
	BatchID        int64  `json:"inventory_id"`
	MedicationID   int64  `json:"medication_id"`
	BrandName      string `json:"brand_name"`
	BatchNumber    string `json:"batch_number"`
	Quantity       int64  `json:"quantity"`
	ExpirationDate Date   `json:"expiration_date"`
	DaysLeft       int    `json:"days_left"`
}

// ExpirationReport partitions a pharmacy's batches relative to AsOf.
// Expired and ExpiringSoon never share a batch.
type ExpirationReport struct {
	AsOf         Date            `json:"as_of"`
	HorizonDays  int             `json:"horizon_days"`
	Expired      []ExpiredBatch  `json:"expired"`
	ExpiringSoon []ExpiringBatch `json:"expiring_soon"`
}
