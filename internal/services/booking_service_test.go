package services

import (
	"database/sql"
	"testing"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSetStatusRejectsCompletingUnpaidBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	booking := testBooking()
	booking.Status = domain.BookingInProgress
	booking.PaymentStatus = domain.PaymentPartial

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(booking))
	mock.ExpectRollback()

	svc := BookingService{DB: db}
	_, err = svc.SetStatus(1, domain.BookingCompleted, 5, "")
	if !domain.IsConflict(err) {
		t.Fatalf("got %v, want conflict for completing a partially paid booking", err)
	}
	// The booking must not have been written.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetStatusRejectsInvalidTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	booking := testBooking()
	booking.Status = domain.BookingCompleted
	booking.PaymentStatus = domain.PaymentPaid

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(booking))
	mock.ExpectRollback()

	svc := BookingService{DB: db}
	_, err = svc.SetStatus(1, domain.BookingConfirmed, 5, "")
	if !domain.IsConflict(err) {
		t.Fatalf("got %v, want conflict for leaving a terminal state", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetStatusCancelReleasesVehicle(t *testing.T) {
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
	mock.ExpectExec("UPDATE vehicles SET status").
		WithArgs("available", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cancelled := booking
	cancelled.Status = domain.BookingCancelled
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(cancelled))

	svc := BookingService{DB: db}
	got, err := svc.SetStatus(1, domain.BookingCancelled, 5, "customer no-show")
	if err != nil {
		t.Fatalf("set status error: %v", err)
	}
	if got.Status != domain.BookingCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateRejectsTerminalBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	booking := testBooking()
	booking.Status = domain.BookingCancelled

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(booking))
	mock.ExpectRollback()

	notes := "late edit"
	svc := BookingService{DB: db}
	_, err = svc.Update(1, models.BookingPatch{Notes: &notes}, 5)
	if !domain.IsConflict(err) {
		t.Fatalf("got %v, want conflict editing a cancelled booking", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func testVehicleRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "plate_number", "status", "daily_rate", "weekly_rate", "monthly_rate",
		"km_limit", "extra_km_rate", "mileage", "created_at", "updated_at",
	}).AddRow(int64(7), "Sedan", "MH12AB1234", "available", 250.0, 0.0, 0.0, int64(0), 0.0, int64(1000), day(0), day(0))
}

func testDriverRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "phone", "license_number", "status",
		"overtime_enabled", "overtime_hours_threshold", "overtime_rate_per_hour",
		"food_enabled", "food_daily_rate",
		"outstation_enabled", "outstation_daily_rate",
		"parking_enabled", "parking_daily_rate",
		"total_trips", "total_km_driven", "total_earnings", "created_at", "updated_at",
	}).AddRow(int64(9), "Ravi", "0800", "DL-42", status,
		false, 0.0, 0.0, false, 0.0, false, 0.0, false, 0.0,
		int64(0), int64(0), 0.0, day(0), day(0))
}

func TestCreateValidatesAssignedDriverEvenWhenOptional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM vehicles WHERE id=").WithArgs(int64(7)).
		WillReturnRows(testVehicleRow())
	mock.ExpectQuery("FROM drivers WHERE id=").WithArgs(int64(9)).
		WillReturnRows(testDriverRow("suspended"))

	driverID := int64(9)
	svc := BookingService{DB: db}
	_, err = svc.Create(CreateBookingInput{
		VehicleID:      7,
		CustomerID:     3,
		DriverID:       &driverID,
		DriverRequired: false,
		PickupDate:     day(0),
		ReturnDate:     day(2),
	}, nil)
	if !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error for an inactive assigned driver", err)
	}
	// Nothing may be persisted once the driver check fails.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRejectsUnknownAssignedDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM vehicles WHERE id=").WithArgs(int64(7)).
		WillReturnRows(testVehicleRow())
	mock.ExpectQuery("FROM drivers WHERE id=").WithArgs(int64(999999)).
		WillReturnError(sql.ErrNoRows)

	driverID := int64(999999)
	svc := BookingService{DB: db}
	_, err = svc.Create(CreateBookingInput{
		VehicleID:      7,
		CustomerID:     3,
		DriverID:       &driverID,
		DriverRequired: false,
		PickupDate:     day(0),
		ReturnDate:     day(2),
	}, nil)
	if !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not-found for a driver id that does not exist", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	svc := BookingService{}
	_, err := svc.Create(CreateBookingInput{
		VehicleID:  7,
		CustomerID: 3,
		PickupDate: day(2),
		ReturnDate: day(0),
	}, nil)
	if !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error for returnDate before pickupDate", err)
	}
}

func TestCreateRequiresDriverWhenFlagged(t *testing.T) {
	svc := BookingService{}
	_, err := svc.Create(CreateBookingInput{
		VehicleID:      7,
		CustomerID:     3,
		DriverRequired: true,
		PickupDate:     day(0),
		ReturnDate:     day(2),
	}, nil)
	if !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error when driver is required but missing", err)
	}
}
