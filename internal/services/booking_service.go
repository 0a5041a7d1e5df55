package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// BookingService owns booking creation, updates and the lifecycle state
// machine, including the vehicle side effects transitions trigger.
type BookingService struct {
	DB        *sql.DB
	RequestID string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) numbers() NumberGenerator {
	repo := repositories.BookingRepository{DB: s.db()}
	return NumberGenerator{Exists: repo.NumberExists, RequestID: s.RequestID}
}

func (s BookingService) paymentNumbers() NumberGenerator {
	repo := repositories.PaymentRepository{DB: s.db()}
	return NumberGenerator{Exists: repo.NumberExists, RequestID: s.RequestID}
}

// CreateBookingInput is the typed creation request; handlers parse dates
// before calling in.
type CreateBookingInput struct {
	VehicleID      int64
	CustomerID     int64
	DriverID       *int64
	VendorID       *int64
	RentalType     domain.RentalType
	DriverRequired bool
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupTime     string
	ReturnTime     string
	PickupLocation string
	ReturnLocation string
	StartMileage   *int64
	EndMileage     *int64
	Discount       float64
	TaxRate        float64
	Notes          string
	Confirmed      bool // operator pre-approval
}

// PublicBookingInput is the unauthenticated storefront request. The customer
// is resolved (or created) by email before the booking proceeds.
type PublicBookingInput struct {
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	VehicleID      int64
	RentalType     domain.RentalType
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupTime     string
	ReturnTime     string
	PickupLocation string
	ReturnLocation string
	Discount       float64
	TaxRate        float64
	Notes          string
}

// Create validates, prices and persists a booking, seeding a pending
// receivable for the full total in the same transaction.
func (s BookingService) Create(in CreateBookingInput, actorID *int64) (models.Booking, error) {
	if in.VehicleID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "vehicleId", Msg: "vehicle is required"}
	}
	if in.CustomerID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "customerId", Msg: "customer is required"}
	}
	if !in.ReturnDate.After(in.PickupDate) {
		return models.Booking{}, domain.ValidationError{Field: "returnDate", Msg: "return date must be after pickup date"}
	}
	if in.Discount < 0 {
		return models.Booking{}, domain.ValidationError{Field: "discount", Msg: "discount cannot be negative"}
	}
	if in.TaxRate < 0 {
		return models.Booking{}, domain.ValidationError{Field: "taxRate", Msg: "tax rate cannot be negative"}
	}
	if in.DriverRequired && in.DriverID == nil {
		return models.Booking{}, domain.ValidationError{Field: "driverId", Msg: "driver is required for this booking"}
	}
	rentalType := in.RentalType
	if rentalType == "" {
		rentalType = domain.RentalOwn
	}
	if !rentalType.Valid() {
		return models.Booking{}, domain.ValidationError{Field: "rentalType", Msg: fmt.Sprintf("unknown rental type %q", in.RentalType)}
	}

	vehicles := repositories.VehicleRepository{DB: s.db()}
	vehicle, err := vehicles.GetByID(in.VehicleID)
	if err != nil {
		return models.Booking{}, err
	}
	// The rate is always taken from the vehicle record, never from the client.
	if vehicle.DailyRate <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "vehicleId", Msg: "vehicle has no daily rate configured"}
	}

	// Any assigned driver must exist and be active, even when the rental does
	// not include driver service; allowance charges only apply when it does.
	var driver *models.Driver
	if in.DriverID != nil {
		d, err := repositories.DriverRepository{DB: s.db()}.GetByID(*in.DriverID)
		if err != nil {
			return models.Booking{}, err
		}
		if !d.Active() {
			return models.Booking{}, domain.ValidationError{Field: "driverId", Msg: "driver is not active"}
		}
		if in.DriverRequired {
			driver = &d
		}
	}

	customers := repositories.CustomerRepository{DB: s.db()}
	customer, err := customers.GetByID(in.CustomerID)
	if err != nil {
		return models.Booking{}, err
	}

	preq := PricingRequest{
		PickupDate:     in.PickupDate,
		ReturnDate:     in.ReturnDate,
		PickupLocation: in.PickupLocation,
		ReturnLocation: in.ReturnLocation,
		StartMileage:   in.StartMileage,
		EndMileage:     in.EndMileage,
		Discount:       in.Discount,
		TaxRate:        in.TaxRate,
	}
	breakdown := CalculatePricing(preq, vehicle)
	charges := CalculateDriverCharges(driver, preq)
	total := utils.Round2(breakdown.TotalAmount + charges.Total)

	status := domain.BookingPending
	if in.Confirmed && actorID != nil {
		status = domain.BookingConfirmed
	}

	booking := models.Booking{
		BookingNumber:  s.numbers().Next(BookingNumberPrefix),
		VehicleID:      in.VehicleID,
		DriverID:       in.DriverID,
		CustomerID:     customer.ID,
		VendorID:       in.VendorID,
		RentalType:     rentalType,
		DriverRequired: in.DriverRequired,
		PickupDate:     in.PickupDate,
		ReturnDate:     in.ReturnDate,
		PickupTime:     strings.TrimSpace(in.PickupTime),
		ReturnTime:     strings.TrimSpace(in.ReturnTime),
		PickupLocation: strings.TrimSpace(in.PickupLocation),
		ReturnLocation: strings.TrimSpace(in.ReturnLocation),
		NumberOfDays:   breakdown.NumberOfDays,
		StartMileage:   in.StartMileage,
		EndMileage:     in.EndMileage,
		TotalKm:        breakdown.TotalKm,
		ExtraKm:        breakdown.ExtraKm,
		DailyRate:      vehicle.DailyRate,
		BaseAmount:     breakdown.BaseAmount,
		ExtraKmCharges: breakdown.ExtraKmCharges,
		DriverCharges:  charges.Total,
		Allowances:     charges.Allowances,
		Discount:       breakdown.Discount,
		TaxRate:        breakdown.TaxRate,
		TaxAmount:      breakdown.TaxAmount,
		TotalAmount:    total,
		AdvancePaid:    0,
		BalanceAmount:  total,
		Status:         status,
		PaymentStatus:  domain.PaymentPending,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedBy:      actorID,
		UpdatedBy:      actorID,
	}

	seedNumber := s.paymentNumbers().Next(PaymentNumberPrefix)

	err = intdb.WithTx(s.db(), func(tx *sql.Tx) error {
		if err := (repositories.BookingRepository{DB: tx}).Insert(&booking); err != nil {
			return err
		}

		// Placeholder receivable for the full amount; real payments flip it or
		// add completed siblings.
		seed := models.Payment{
			PaymentNumber: seedNumber,
			BookingID:     booking.ID,
			PaymentType:   domain.PaymentReceivable,
			CustomerID:    &booking.CustomerID,
			Amount:        total,
			Status:        domain.PaymentStatePending,
		}
		if err := (repositories.PaymentRepository{DB: tx}).Insert(&seed); err != nil {
			return err
		}

		if status == domain.BookingConfirmed {
			if err := (repositories.VehicleRepository{DB: tx}).UpdateStatus(booking.VehicleID, domain.VehicleBooked); err != nil {
				return err
			}
		}

		txCustomers := repositories.CustomerRepository{DB: tx}
		if err := txCustomers.IncrementStats(booking.CustomerID, 1, 0); err != nil {
			return err
		}
		return refreshCustomerOutstanding(tx, booking.CustomerID)
	})
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d number=%s total=%s", booking.ID, booking.BookingNumber, utils.FormatMoney(total)))

	return repositories.BookingRepository{DB: s.db()}.GetByID(booking.ID)
}

// CreatePublic is the storefront path: the customer is deduplicated by email
// only, the booking always starts pending, and no driver or operator is
// attached.
func (s BookingService) CreatePublic(in PublicBookingInput) (models.Booking, error) {
	customers := repositories.CustomerRepository{DB: s.db()}
	customer, err := customers.FindOrCreateByEmail(in.CustomerEmail, in.CustomerName, in.CustomerPhone)
	if err != nil {
		return models.Booking{}, err
	}

	return s.Create(CreateBookingInput{
		VehicleID:      in.VehicleID,
		CustomerID:     customer.ID,
		RentalType:     in.RentalType,
		DriverRequired: false,
		PickupDate:     in.PickupDate,
		ReturnDate:     in.ReturnDate,
		PickupTime:     in.PickupTime,
		ReturnTime:     in.ReturnTime,
		PickupLocation: in.PickupLocation,
		ReturnLocation: in.ReturnLocation,
		Discount:       in.Discount,
		TaxRate:        in.TaxRate,
		Notes:          in.Notes,
		Confirmed:      false,
	}, nil)
}

// SetStatus drives the lifecycle state machine and its side effects.
func (s BookingService) SetStatus(id int64, newStatus domain.BookingStatus, actorID int64, reason string) (models.Booking, error) {
	if !newStatus.Valid() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", newStatus)}
	}

	err := intdb.WithTx(s.db(), func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		booking, err := bookings.GetByID(id)
		if err != nil {
			return err
		}

		if !domain.CanTransition(booking.Status, newStatus) {
			return domain.ConflictError{
				Resource: "booking",
				Msg:      fmt.Sprintf("cannot transition from %s to %s", booking.Status, newStatus),
			}
		}

		now := time.Now()
		vehicles := repositories.VehicleRepository{DB: tx}
		fields := map[string]any{
			"status":     string(newStatus),
			"updated_by": actorID,
		}

		switch newStatus {
		case domain.BookingConfirmed:
			if err := vehicles.UpdateStatus(booking.VehicleID, domain.VehicleBooked); err != nil {
				return err
			}

		case domain.BookingInProgress:
			fields["actual_pickup_date"] = now

		case domain.BookingCompleted:
			if booking.PaymentStatus != domain.PaymentPaid {
				return domain.ConflictError{Resource: "booking", Msg: "cannot complete a booking that is not fully paid"}
			}
			fields["actual_return_date"] = now
			if err := vehicles.UpdateStatus(booking.VehicleID, domain.VehicleAvailable); err != nil {
				return err
			}
			if booking.EndMileage != nil {
				if err := vehicles.UpdateMileage(booking.VehicleID, *booking.EndMileage); err != nil {
					return err
				}
			}

		case domain.BookingCancelled:
			fields["cancellation_reason"] = strings.TrimSpace(reason)
			fields["cancelled_by"] = actorID
			fields["cancelled_at"] = now
			if err := vehicles.UpdateStatus(booking.VehicleID, domain.VehicleAvailable); err != nil {
				return err
			}
		}

		if err := bookings.Update(id, fields); err != nil {
			return err
		}

		// Completion requests income accrual; the persisted flag keeps the
		// dual trigger (here and the reconciler) from double counting.
		if newStatus == domain.BookingCompleted && booking.DriverID != nil && booking.PaymentStatus == domain.PaymentPaid {
			if err := accrueDriverIncome(tx, booking); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "set_status", fmt.Sprintf("booking_id=%d status=%s", id, newStatus))
	return repositories.BookingRepository{DB: s.db()}.GetByID(id)
}

// Update applies a sparse patch. Pricing is re-run only when a field feeding
// the calculation changed; otherwise priced values stay untouched.
func (s BookingService) Update(id int64, patch models.BookingPatch, actorID int64) (models.Booking, error) {
	err := intdb.WithTx(s.db(), func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		booking, err := bookings.GetByID(id)
		if err != nil {
			return err
		}
		if booking.Status.Terminal() {
			return domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("a %s booking can no longer be edited", booking.Status)}
		}

		fields := map[string]any{"updated_by": actorID}

		merged := booking
		if patch.PickupDate != nil {
			merged.PickupDate = *patch.PickupDate
			fields["pickup_date"] = *patch.PickupDate
		}
		if patch.ReturnDate != nil {
			merged.ReturnDate = *patch.ReturnDate
			fields["return_date"] = *patch.ReturnDate
		}
		if patch.PickupTime != nil {
			fields["pickup_time"] = strings.TrimSpace(*patch.PickupTime)
		}
		if patch.ReturnTime != nil {
			fields["return_time"] = strings.TrimSpace(*patch.ReturnTime)
		}
		if patch.PickupLocation != nil {
			merged.PickupLocation = *patch.PickupLocation
			fields["pickup_location"] = strings.TrimSpace(*patch.PickupLocation)
		}
		if patch.ReturnLocation != nil {
			merged.ReturnLocation = *patch.ReturnLocation
			fields["return_location"] = strings.TrimSpace(*patch.ReturnLocation)
		}
		if patch.StartMileage != nil {
			merged.StartMileage = patch.StartMileage
			fields["start_mileage"] = *patch.StartMileage
		}
		if patch.EndMileage != nil {
			merged.EndMileage = patch.EndMileage
			fields["end_mileage"] = *patch.EndMileage
		}
		if patch.Notes != nil {
			fields["notes"] = strings.TrimSpace(*patch.Notes)
		}
		if patch.Discount != nil {
			if *patch.Discount < 0 {
				return domain.ValidationError{Field: "discount", Msg: "discount cannot be negative"}
			}
			merged.Discount = *patch.Discount
		}
		if patch.TaxRate != nil {
			if *patch.TaxRate < 0 {
				return domain.ValidationError{Field: "taxRate", Msg: "tax rate cannot be negative"}
			}
			merged.TaxRate = *patch.TaxRate
		}

		if !merged.ReturnDate.After(merged.PickupDate) {
			return domain.ValidationError{Field: "returnDate", Msg: "return date must be after pickup date"}
		}

		var driver *models.Driver
		if patch.DriverSet {
			merged.DriverID = patch.DriverID
			if patch.DriverID == nil {
				fields["driver_id"] = nil
				fields["driver_required"] = false
				merged.DriverRequired = false
			} else {
				d, err := repositories.DriverRepository{DB: tx}.GetByID(*patch.DriverID)
				if err != nil {
					return err
				}
				if !d.Active() {
					return domain.ValidationError{Field: "driverId", Msg: "driver is not active"}
				}
				driver = &d
				fields["driver_id"] = *patch.DriverID
				fields["driver_required"] = true
				merged.DriverRequired = true
			}
		} else if merged.DriverID != nil {
			d, err := repositories.DriverRepository{DB: tx}.GetByID(*merged.DriverID)
			if err != nil {
				return err
			}
			driver = &d
		}

		if patch.RequiresRepricing() {
			vehicle, err := repositories.VehicleRepository{DB: tx}.GetByID(booking.VehicleID)
			if err != nil {
				return err
			}
			preq := PricingRequest{
				PickupDate:     merged.PickupDate,
				ReturnDate:     merged.ReturnDate,
				PickupLocation: merged.PickupLocation,
				ReturnLocation: merged.ReturnLocation,
				StartMileage:   merged.StartMileage,
				EndMileage:     merged.EndMileage,
				Discount:       merged.Discount,
				TaxRate:        merged.TaxRate,
			}
			breakdown := CalculatePricing(preq, vehicle)

			var charges DriverCharges
			if merged.DriverRequired {
				charges = CalculateDriverCharges(driver, preq)
			}
			total := utils.Round2(breakdown.TotalAmount + charges.Total)
			balance := utils.Round2(total - booking.AdvancePaid)

			fields["number_of_days"] = breakdown.NumberOfDays
			fields["total_km"] = breakdown.TotalKm
			fields["extra_km"] = breakdown.ExtraKm
			fields["daily_rate"] = vehicle.DailyRate
			fields["base_amount"] = breakdown.BaseAmount
			fields["extra_km_charges"] = breakdown.ExtraKmCharges
			fields["driver_charges"] = charges.Total
			fields["allowance_overtime"] = charges.Allowances.Overtime
			fields["allowance_food"] = charges.Allowances.Food
			fields["allowance_outstation"] = charges.Allowances.Outstation
			fields["allowance_parking"] = charges.Allowances.Parking
			fields["discount"] = breakdown.Discount
			fields["tax_rate"] = breakdown.TaxRate
			fields["tax_amount"] = breakdown.TaxAmount
			fields["total_amount"] = total
			fields["balance_amount"] = balance
			fields["payment_status"] = string(derivePaymentStatus(total, booking.AdvancePaid))
		}

		if err := bookings.Update(id, fields); err != nil {
			return err
		}
		return refreshCustomerOutstanding(tx, booking.CustomerID)
	})
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "update", fmt.Sprintf("booking_id=%d", id))
	return repositories.BookingRepository{DB: s.db()}.GetByID(id)
}

func (s BookingService) Get(id int64) (models.Booking, error) {
	return repositories.BookingRepository{DB: s.db()}.GetByID(id)
}

func (s BookingService) List(f repositories.BookingFilter) ([]models.Booking, int, error) {
	return repositories.BookingRepository{DB: s.db()}.List(f)
}
