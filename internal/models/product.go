package models

import "time"

// DateLayout is the month/day/year layout used by the CSV files and the console.
const DateLayout = "01/02/2006"

// Product represents a product entity in the inventory system.
// Price is kept in cents and UpdatedAt carries a date only (midnight UTC).
type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewerOrEqual reports whether p was updated on the same day as other or later.
func (p Product) NewerOrEqual(other Product) bool {
	return !p.UpdatedAt.Before(other.UpdatedAt)
}
