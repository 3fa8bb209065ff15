package domain

import "time"

type DashboardStats struct {
	TotalMedications int64 `json:"total_medications"`
	TotalBatches     int64 `json:"total_batches"`
	TotalQuantity    int64 `json:"total_quantity"`
	ExpiredBatches   int64 `json:"expired_batches"`
	ReorderNeeded    int64 `json:"reorder_needed"`
	OutOfStock       int64 `json:"out_of_stock"`
	NearExpiry       int64 `json:"near_expiry"`
}

type RecentMedication struct {
	MedicationID int64     `json:"medication_id"`
	BrandName    string    `json:"brand_name"`
	Strength     string    `json:"strength"`
	Manufacturer string    `json:"manufacturer"`
	CreatedAt    time.Time `json:"created_at"`
}

type UpcomingExpiry struct {
	BatchID        int64  `json:"inventory_id"`
	BatchNumber    string `json:"batch_number"`
	ExpirationDate Date   `json:"expiration_date"`
	Quantity       int64  `json:"quantity"`
	BrandName      string `json:"brand_name"`
	Strength       string `json:"strength"`
}

// ReorderItem is a medication whose stock is below its reorder point.
type ReorderItem struct {
	MedicationID  int64  `json:"medication_id"`
	BrandName     string `json:"brand_name"`
	TotalQuantity int64  `json:"total_quantity"`
	ReorderPoint  int64  `json:"reorder_point"`
}

// Dashboard is the pharmacy-level summary.
type Dashboard struct {
	Pharmacy          PharmacyContact    `json:"pharmacy"`
	AsOf              Date               `json:"as_of"`
	HorizonDays       int                `json:"horizon_days"`
	Stats             DashboardStats     `json:"stats"`
	ReorderList       []ReorderItem      `json:"reorder_list"`
	RecentMedications []RecentMedication `json:"recent_medications"`
	ExpiringSoon      []UpcomingExpiry   `json:"expiring_soon"`
}
