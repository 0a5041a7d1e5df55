package models

import (
	"time"

	"backend/internal/domain"
)

// DriverAllowances is the per-booking breakdown of driver add-on charges.
type DriverAllowances struct {
	Overtime   float64 `json:"overtime"`
	Food       float64 `json:"food"`
	Outstation float64 `json:"outstation"`
	Parking    float64 `json:"parking"`
}

func (a DriverAllowances) Sum() float64 {
	return a.Overtime + a.Food + a.Outstation + a.Parking
}

// Booking is a rental agreement linking a vehicle, customer and optional
// driver/vendor to a priced period.
type Booking struct {
	ID            int64  `json:"id"`
	BookingNumber string `json:"bookingNumber"`

	VehicleID  int64  `json:"vehicleId"`
	DriverID   *int64 `json:"driverId,omitempty"`
	CustomerID int64  `json:"customerId"`
	VendorID   *int64 `json:"vendorId,omitempty"`

	RentalType     domain.RentalType `json:"rentalType"`
	DriverRequired bool              `json:"driverRequired"`

	PickupDate     time.Time `json:"pickupDate"`
	ReturnDate     time.Time `json:"returnDate"`
	PickupTime     string    `json:"pickupTime,omitempty"`
	ReturnTime     string    `json:"returnTime,omitempty"`
	PickupLocation string    `json:"pickupLocation,omitempty"`
	ReturnLocation string    `json:"returnLocation,omitempty"`
	NumberOfDays   int       `json:"numberOfDays"`

	StartMileage *int64 `json:"startMileage,omitempty"`
	EndMileage   *int64 `json:"endMileage,omitempty"`
	TotalKm      int64  `json:"totalKm"`
	ExtraKm      int64  `json:"extraKm"`

	DailyRate      float64          `json:"dailyRate"`
	BaseAmount     float64          `json:"baseAmount"`
	ExtraKmCharges float64          `json:"extraKmCharges"`
	DriverCharges  float64          `json:"driverCharges"`
	Allowances     DriverAllowances `json:"driverAllowances"`
	Discount       float64          `json:"discount"`
	TaxRate        float64          `json:"taxRate"`
	TaxAmount      float64          `json:"taxAmount"`
	TotalAmount    float64          `json:"totalAmount"`
	AdvancePaid    float64          `json:"advancePaid"`
	BalanceAmount  float64          `json:"balanceAmount"`

	Status        domain.BookingStatus `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	IncomeAccrued bool                 `json:"incomeAccrued"`

	Notes              string     `json:"notes,omitempty"`
	CreatedBy          *int64     `json:"createdBy,omitempty"`
	UpdatedBy          *int64     `json:"updatedBy,omitempty"`
	CancelledBy        *int64     `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	ActualPickupDate   *time.Time `json:"actualPickupDate,omitempty"`
	ActualReturnDate   *time.Time `json:"actualReturnDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingPatch supports PATCH-style updates via pointer presence.
type BookingPatch struct {
	PickupDate     *time.Time
	ReturnDate     *time.Time
	PickupTime     *string
	ReturnTime     *string
	PickupLocation *string
	ReturnLocation *string
	StartMileage   *int64
	EndMileage     *int64
	DriverID       *int64
	DriverSet      bool // true when DriverID was supplied, even as null
	Discount       *float64
	TaxRate        *float64
	Notes          *string
}

// RequiresRepricing reports whether the patch touches any field that feeds
// the pricing calculation.
func (p BookingPatch) RequiresRepricing() bool {
	return p.PickupDate != nil || p.ReturnDate != nil ||
		p.StartMileage != nil || p.EndMileage != nil ||
		p.DriverSet || p.Discount != nil || p.TaxRate != nil
}
