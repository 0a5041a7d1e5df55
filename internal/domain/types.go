package domain

import "fmt"

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// bookingTransitions is the closed transition table. Cancellation is reachable
// from every non-terminal state.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
	BookingCompleted:  {},
	BookingCancelled:  {},
}

// CanTransition reports whether from -> to is an allowed lifecycle move.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseBookingStatus validates a raw status value.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.Valid() {
		return "", ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", raw)}
	}
	return s, nil
}

// PaymentStatus is the booking-level settlement state.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// PaymentState is the state of a single payment record.
type PaymentState string

const (
	PaymentStatePending   PaymentState = "pending"
	PaymentStateCompleted PaymentState = "completed"
	PaymentStateFailed    PaymentState = "failed"
	PaymentStateRefunded  PaymentState = "refunded"
)

func (s PaymentState) Valid() bool {
	switch s {
	case PaymentStatePending, PaymentStateCompleted, PaymentStateFailed, PaymentStateRefunded:
		return true
	}
	return false
}

// PaymentType distinguishes money owed to the operator from money owed out.
type PaymentType string

const (
	PaymentReceivable PaymentType = "receivable"
	PaymentPayable    PaymentType = "payable"
)

func (t PaymentType) Valid() bool {
	return t == PaymentReceivable || t == PaymentPayable
}

// RentalType says where the vehicle comes from.
type RentalType string

const (
	RentalOwn        RentalType = "own"
	RentalVendor     RentalType = "vendor"
	RentalOutsourced RentalType = "outsourced"
)

func (t RentalType) Valid() bool {
	switch t {
	case RentalOwn, RentalVendor, RentalOutsourced:
		return true
	}
	return false
}

// VehicleStatus mirrors the vehicle store states the engine flips.
type VehicleStatus string

const (
	VehicleAvailable    VehicleStatus = "available"
	VehicleBooked       VehicleStatus = "booked"
	VehicleMaintenance  VehicleStatus = "maintenance"
	VehicleOutOfService VehicleStatus = "out_of_service"
	VehicleSold         VehicleStatus = "sold"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleBooked, VehicleMaintenance, VehicleOutOfService, VehicleSold:
		return true
	}
	return false
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
