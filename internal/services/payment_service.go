package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// PaymentService records payments and keeps the linked booking's derived
// fields consistent.
type PaymentService struct {
	DB        *sql.DB
	RequestID string
}

func (s PaymentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// RecordPaymentInput is a payment recorded by an operator. Amount is validated
// here; everything else about the booking is derived by the reconciler.
type RecordPaymentInput struct {
	BookingID      int64
	PaymentType    domain.PaymentType
	Amount         float64
	PaymentMethod  string
	Notes          string
	IdempotencyKey string
}

// Record inserts a completed payment and reconciles the booking in one
// transaction. Retries with the same idempotency key return the original
// payment instead of a duplicate.
func (s PaymentService) Record(in RecordPaymentInput, actorID *int64) (models.Payment, error) {
	if in.BookingID <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "bookingId", Msg: "booking is required"}
	}
	if in.Amount <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "amount must be positive"}
	}
	paymentType := in.PaymentType
	if paymentType == "" {
		paymentType = domain.PaymentReceivable
	}
	if !paymentType.Valid() {
		return models.Payment{}, domain.ValidationError{Field: "paymentType", Msg: fmt.Sprintf("unknown payment type %q", in.PaymentType)}
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	} else {
		payments := repositories.PaymentRepository{DB: s.db()}
		if existing, found, err := payments.GetByIdempotencyKey(key); err != nil {
			return models.Payment{}, domain.InternalError{Err: err}
		} else if found {
			utils.LogEvent(s.RequestID, "payment", "record", "idempotent replay of "+existing.PaymentNumber)
			return existing, nil
		}
	}

	numbers := NumberGenerator{
		Exists:    repositories.PaymentRepository{DB: s.db()}.NumberExists,
		RequestID: s.RequestID,
	}

	booking, err := repositories.BookingRepository{DB: s.db()}.GetByID(in.BookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if booking.Status == domain.BookingCancelled {
		return models.Payment{}, domain.ConflictError{Resource: "booking", Msg: "cannot record a payment against a cancelled booking"}
	}

	payment := models.Payment{
		PaymentNumber:  numbers.Next(PaymentNumberPrefix),
		BookingID:      booking.ID,
		PaymentType:    paymentType,
		CustomerID:     &booking.CustomerID,
		VendorID:       booking.VendorID,
		DriverID:       booking.DriverID,
		Amount:         utils.Round2(in.Amount),
		PaymentMethod:  strings.TrimSpace(in.PaymentMethod),
		Status:         domain.PaymentStateCompleted,
		IdempotencyKey: key,
		Notes:          strings.TrimSpace(in.Notes),
		ReceivedBy:     actorID,
	}

	err = intdb.WithTx(s.db(), func(tx *sql.Tx) error {
		if err := (repositories.PaymentRepository{DB: tx}).Insert(&payment); err != nil {
			return err
		}
		if payment.PaymentType == domain.PaymentReceivable {
			if err := (repositories.CustomerRepository{DB: tx}).IncrementStats(booking.CustomerID, 0, payment.Amount); err != nil {
				return err
			}
		}
		return reconcileBooking(tx, booking.ID)
	})
	if err != nil {
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "record",
		fmt.Sprintf("payment_id=%d number=%s booking_id=%d amount=%s",
			payment.ID, payment.PaymentNumber, booking.ID, utils.FormatMoney(payment.Amount)))
	return payment, nil
}

// MarkReceived flips a pending payment (typically the receivable seeded at
// booking creation) to completed and reconciles the booking.
func (s PaymentService) MarkReceived(paymentID int64, method string, actorID *int64) (models.Payment, error) {
	payments := repositories.PaymentRepository{DB: s.db()}
	payment, err := payments.GetByID(paymentID)
	if err != nil {
		return models.Payment{}, err
	}

	err = intdb.WithTx(s.db(), func(tx *sql.Tx) error {
		txPayments := repositories.PaymentRepository{DB: tx}
		if err := txPayments.MarkCompleted(paymentID, strings.TrimSpace(method), actorID, time.Now()); err != nil {
			return err
		}
		if payment.PaymentType == domain.PaymentReceivable && payment.CustomerID != nil {
			if err := (repositories.CustomerRepository{DB: tx}).IncrementStats(*payment.CustomerID, 0, payment.Amount); err != nil {
				return err
			}
		}
		return reconcileBooking(tx, payment.BookingID)
	})
	if err != nil {
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "mark_received",
		fmt.Sprintf("payment_id=%d booking_id=%d", paymentID, payment.BookingID))
	return payments.GetByID(paymentID)
}

func (s PaymentService) Get(id int64) (models.Payment, error) {
	return repositories.PaymentRepository{DB: s.db()}.GetByID(id)
}

func (s PaymentService) ListByBooking(bookingID int64) ([]models.Payment, error) {
	return repositories.PaymentRepository{DB: s.db()}.ListByBooking(bookingID)
}

// derivePaymentStatus maps a total and what has been paid so far onto the
// booking-level payment status.
func derivePaymentStatus(total, advance float64) domain.PaymentStatus {
	switch {
	case total-advance <= 0:
		return domain.PaymentPaid
	case advance > 0:
		return domain.PaymentPartial
	default:
		return domain.PaymentPending
	}
}

// reconcileBooking recomputes the booking's advance, balance and payment
// status from the full completed-receivable set, cascades pending bookings to
// confirmed once money has arrived, and triggers driver income accrual when
// the booking is both completed and fully paid.
func reconcileBooking(tx *sql.Tx, bookingID int64) error {
	bookings := repositories.BookingRepository{DB: tx}
	booking, err := bookings.GetByID(bookingID)
	if err != nil {
		return err
	}

	advance, err := repositories.PaymentRepository{DB: tx}.SumCompletedReceivables(bookingID)
	if err != nil {
		return err
	}
	advance = utils.Round2(advance)
	balance := utils.Round2(booking.TotalAmount - advance)
	payStatus := derivePaymentStatus(booking.TotalAmount, advance)

	fields := map[string]any{
		"advance_paid":   advance,
		"balance_amount": balance,
		"payment_status": string(payStatus),
	}

	// Money arriving on a pending booking confirms it.
	status := booking.Status
	if booking.Status == domain.BookingPending &&
		(payStatus == domain.PaymentPaid || payStatus == domain.PaymentPartial) {
		status = domain.BookingConfirmed
		fields["status"] = string(status)
	}

	if err := bookings.Update(bookingID, fields); err != nil {
		return err
	}

	if status == domain.BookingConfirmed && booking.Status == domain.BookingPending {
		if err := (repositories.VehicleRepository{DB: tx}).UpdateStatus(booking.VehicleID, domain.VehicleBooked); err != nil {
			return err
		}
	}

	if booking.Status == domain.BookingCompleted && payStatus == domain.PaymentPaid && booking.DriverID != nil {
		if err := accrueDriverIncome(tx, booking); err != nil {
			return err
		}
	}

	return refreshCustomerOutstanding(tx, booking.CustomerID)
}

// accrueDriverIncome credits the driver's lifetime counters exactly once per
// booking; the persisted flag makes retriggering a no-op.
func accrueDriverIncome(tx *sql.Tx, booking models.Booking) error {
	if booking.IncomeAccrued || booking.DriverID == nil {
		return nil
	}

	earnings := utils.Round2(booking.DriverCharges + booking.Allowances.Sum())
	if err := (repositories.DriverRepository{DB: tx}).IncrementStats(*booking.DriverID, 1, booking.TotalKm, earnings); err != nil {
		return err
	}
	return repositories.BookingRepository{DB: tx}.Update(booking.ID, map[string]any{"income_accrued": true})
}

// refreshCustomerOutstanding recomputes the customer's outstanding balance
// from open bookings rather than adjusting it incrementally.
func refreshCustomerOutstanding(tx *sql.Tx, customerID int64) error {
	outstanding, err := repositories.BookingRepository{DB: tx}.SumOutstandingByCustomer(customerID)
	if err != nil {
		return err
	}
	return repositories.CustomerRepository{DB: tx}.UpdateOutstandingBalance(customerID, utils.Round2(outstanding))
}
