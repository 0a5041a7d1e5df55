package services

import (
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var bookingTestColumns = []string{
	"id", "booking_number", "vehicle_id", "driver_id", "customer_id", "vendor_id",
	"rental_type", "driver_required",
	"pickup_date", "return_date", "pickup_time", "return_time",
	"pickup_location", "return_location", "number_of_days",
	"start_mileage", "end_mileage", "total_km", "extra_km",
	"daily_rate", "base_amount", "extra_km_charges", "driver_charges",
	"allowance_overtime", "allowance_food", "allowance_outstation", "allowance_parking",
	"discount", "tax_rate", "tax_amount", "total_amount", "advance_paid", "balance_amount",
	"status", "payment_status", "income_accrued",
	"notes", "created_by", "updated_by", "cancelled_by", "cancelled_at",
	"cancellation_reason", "actual_pickup_date", "actual_return_date",
	"created_at", "updated_at",
}

func intPtrVal(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func timePtrVal(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

func bookingRow(b models.Booking) *sqlmock.Rows {
	return sqlmock.NewRows(bookingTestColumns).AddRow(
		b.ID, b.BookingNumber, b.VehicleID, intPtrVal(b.DriverID), b.CustomerID, intPtrVal(b.VendorID),
		string(b.RentalType), b.DriverRequired,
		b.PickupDate, b.ReturnDate, b.PickupTime, b.ReturnTime,
		b.PickupLocation, b.ReturnLocation, b.NumberOfDays,
		intPtrVal(b.StartMileage), intPtrVal(b.EndMileage), b.TotalKm, b.ExtraKm,
		b.DailyRate, b.BaseAmount, b.ExtraKmCharges, b.DriverCharges,
		b.Allowances.Overtime, b.Allowances.Food, b.Allowances.Outstation, b.Allowances.Parking,
		b.Discount, b.TaxRate, b.TaxAmount, b.TotalAmount, b.AdvancePaid, b.BalanceAmount,
		string(b.Status), string(b.PaymentStatus), b.IncomeAccrued,
		b.Notes, intPtrVal(b.CreatedBy), intPtrVal(b.UpdatedBy), intPtrVal(b.CancelledBy), timePtrVal(b.CancelledAt),
		b.CancellationReason, timePtrVal(b.ActualPickupDate), timePtrVal(b.ActualReturnDate),
		b.CreatedAt, b.UpdatedAt,
	)
}

func testBooking() models.Booking {
	return models.Booking{
		ID:            1,
		BookingNumber: "BKG-20250615-0001",
		VehicleID:     7,
		CustomerID:    3,
		RentalType:    domain.RentalOwn,
		PickupDate:    day(0),
		ReturnDate:    day(2),
		NumberOfDays:  2,
		DailyRate:     250,
		BaseAmount:    500,
		TotalAmount:   500,
		BalanceAmount: 500,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     day(0),
		UpdatedAt:     day(0),
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	cases := []struct {
		total, advance float64
		want           domain.PaymentStatus
	}{
		{500, 0, domain.PaymentPending},
		{500, 200, domain.PaymentPartial},
		{500, 500, domain.PaymentPaid},
		{500, 600, domain.PaymentPaid},
		{0, 0, domain.PaymentPaid},
	}
	for _, tc := range cases {
		if got := derivePaymentStatus(tc.total, tc.advance); got != tc.want {
			t.Errorf("derivePaymentStatus(%v, %v) = %s, want %s", tc.total, tc.advance, got, tc.want)
		}
	}
}

func TestReconcileFullPaymentCascadesToConfirmed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(testBooking()))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\),0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(500.0))
	mock.ExpectExec("UPDATE bookings SET").
		WithArgs(500.0, 0.0, "paid", "confirmed", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE vehicles SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(balance_amount\),0\)`).
		WithArgs(int64(3), "paid", "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
	mock.ExpectExec("UPDATE customers SET outstanding_balance").WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	if err := reconcileBooking(tx, 1); err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReconcilePartialOnConfirmedLeavesVehicleAlone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	booking := testBooking()
	booking.Status = domain.BookingConfirmed

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(booking))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\),0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(200.0))
	mock.ExpectExec("UPDATE bookings SET").
		WithArgs(200.0, 300.0, "partial", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(balance_amount\),0\)`).
		WithArgs(int64(3), "paid", "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(300.0))
	mock.ExpectExec("UPDATE customers SET outstanding_balance").WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	if err := reconcileBooking(tx, 1); err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	// No vehicle status expectation registered: a partial payment on an
	// already-confirmed booking must not touch the vehicle.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReconcileAccruesDriverIncomeOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	driverID := int64(9)
	booking := testBooking()
	booking.Status = domain.BookingCompleted
	booking.PaymentStatus = domain.PaymentPaid
	booking.DriverID = &driverID
	booking.DriverCharges = 430
	booking.Allowances = models.DriverAllowances{Food: 100, Outstation: 200, Parking: 50, Overtime: 80}
	booking.TotalKm = 500

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(booking))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\),0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(500.0))
	mock.ExpectExec("UPDATE bookings SET").
		WithArgs(500.0, 0.0, "paid", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE drivers").
		WithArgs(int64(1), int64(500), 860.0, driverID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET").
		WithArgs(true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(balance_amount\),0\)`).
		WithArgs(int64(3), "paid", "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
	mock.ExpectExec("UPDATE customers SET outstanding_balance").WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	if err := reconcileBooking(tx, 1); err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccrueDriverIncomeSkipsWhenFlagSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}

	driverID := int64(9)
	booking := testBooking()
	booking.DriverID = &driverID
	booking.IncomeAccrued = true

	if err := accrueDriverIncome(tx, booking); err != nil {
		t.Fatalf("accrue error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("accrual ran despite the persisted flag: %v", err)
	}
}

func TestRecordReplaysIdempotencyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	existing := sqlmock.NewRows([]string{
		"id", "payment_number", "booking_id", "payment_type", "customer_id", "vendor_id", "driver_id",
		"amount", "payment_method", "status", "idempotency_key",
		"notes", "received_by", "created_at", "updated_at",
	}).AddRow(
		int64(4), "PAY-20250615-0001", int64(1), "receivable", int64(3), nil, nil,
		500.0, "cash", "completed", "retry-key-1",
		"", nil, day(0), day(0),
	)
	mock.ExpectQuery("FROM payments WHERE idempotency_key=").WithArgs("retry-key-1").
		WillReturnRows(existing)

	svc := PaymentService{DB: db}
	payment, err := svc.Record(RecordPaymentInput{
		BookingID:      1,
		Amount:         500,
		IdempotencyKey: "retry-key-1",
	}, nil)
	if err != nil {
		t.Fatalf("record error: %v", err)
	}
	if payment.PaymentNumber != "PAY-20250615-0001" {
		t.Fatalf("got %q, want the previously recorded payment back", payment.PaymentNumber)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
