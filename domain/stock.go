package domain

import "time"

// BatchDetail is a batch as listed under its medication's stock view.
type BatchDetail struct {
	ID             int64     `json:"inventory_id"`
	BatchNumber    string    `json:"batch_number"`
	Quantity       int64     `json:"quantity"`
	ExpirationDate Date      `json:"expiration_date"`
	LastUpdated    time.Time `json:"last_updated"`
}

// StockView aggregates every batch of one medication at one pharmacy.
// It is derived on each read and never stored.
type StockView struct {
	Medication
	TotalQuantity int64         `json:"total_quantity"`
	Batches       []BatchDetail `json:"inventory"`
}

// StockStatus restricts which batches are aggregated.
type StockStatus string

const (
	StockStatusAll     StockStatus = ""
	StockStatusExpired StockStatus = "expired"
)

// StockFilter narrows the batch rows joined to each medication. It never
// removes medications from the result.
type StockFilter struct {
	Status               StockStatus
	OnlyAvailableBatches bool
}
