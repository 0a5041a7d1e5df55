package models

import (
	"time"

	"backend/internal/domain"
)

// Payment is a receivable or payable transaction linked to a booking.
// Completed payments are never edited in place; corrections are new records.
type Payment struct {
	ID            int64               `json:"id"`
	PaymentNumber string              `json:"paymentNumber"`
	BookingID     int64               `json:"bookingId"`
	PaymentType   domain.PaymentType  `json:"paymentType"`
	CustomerID    *int64              `json:"customerId,omitempty"`
	VendorID      *int64              `json:"vendorId,omitempty"`
	DriverID      *int64              `json:"driverId,omitempty"`
	Amount        float64             `json:"amount"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	Status        domain.PaymentState `json:"status"`
	IdempotencyKey string             `json:"idempotencyKey,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	ReceivedBy    *int64              `json:"receivedBy,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}
