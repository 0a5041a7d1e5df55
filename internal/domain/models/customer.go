package models

import "time"

// Customer is a renting party; email is the sole dedup key for the public
// booking path.
type Customer struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	TotalBookings      int64     `json:"totalBookings"`
	TotalSpent         float64   `json:"totalSpent"`
	OutstandingBalance float64   `json:"outstandingBalance"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
