package domain

import "time"

type Pharmacy struct {
	ID          int64     `db:"pharmacy_id" json:"pharmacy_id"`
	Name        string    `db:"name" json:"name"`
	Address     string    `db:"address" json:"address"`
	Latitude    *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude   *float64  `db:"longitude" json:"longitude,omitempty"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Email       string    `db:"email" json:"email"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PharmacyContact is the public header shown on dashboards.
type PharmacyContact struct {
	ID          int64  `json:"pharmacy_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

func (p Pharmacy) Contact() PharmacyContact {
	return PharmacyContact{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
		Email:       p.Email,
	}
}
