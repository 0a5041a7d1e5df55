package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

const bookingColumns = `
	id, booking_number, vehicle_id, driver_id, customer_id, vendor_id,
	rental_type, driver_required,
	pickup_date, return_date, COALESCE(pickup_time,''), COALESCE(return_time,''),
	COALESCE(pickup_location,''), COALESCE(return_location,''), number_of_days,
	start_mileage, end_mileage, total_km, extra_km,
	daily_rate, base_amount, extra_km_charges, driver_charges,
	allowance_overtime, allowance_food, allowance_outstation, allowance_parking,
	discount, tax_rate, tax_amount, total_amount, advance_paid, balance_amount,
	status, payment_status, income_accrued,
	COALESCE(notes,''), created_by, updated_by, cancelled_by, cancelled_at,
	COALESCE(cancellation_reason,''), actual_pickup_date, actual_return_date,
	created_at, updated_at`

type BookingRepository struct {
	DB intdb.DBTX
}

type bookingScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row bookingScanner) (models.Booking, error) {
	var (
		b            models.Booking
		driverID     sql.NullInt64
		vendorID     sql.NullInt64
		startMileage sql.NullInt64
		endMileage   sql.NullInt64
		createdBy    sql.NullInt64
		updatedBy    sql.NullInt64
		cancelledBy  sql.NullInt64
		cancelledAt  sql.NullTime
		actualPickup sql.NullTime
		actualReturn sql.NullTime
	)

	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.VehicleID, &driverID, &b.CustomerID, &vendorID,
		&b.RentalType, &b.DriverRequired,
		&b.PickupDate, &b.ReturnDate, &b.PickupTime, &b.ReturnTime,
		&b.PickupLocation, &b.ReturnLocation, &b.NumberOfDays,
		&startMileage, &endMileage, &b.TotalKm, &b.ExtraKm,
		&b.DailyRate, &b.BaseAmount, &b.ExtraKmCharges, &b.DriverCharges,
		&b.Allowances.Overtime, &b.Allowances.Food, &b.Allowances.Outstation, &b.Allowances.Parking,
		&b.Discount, &b.TaxRate, &b.TaxAmount, &b.TotalAmount, &b.AdvancePaid, &b.BalanceAmount,
		&b.Status, &b.PaymentStatus, &b.IncomeAccrued,
		&b.Notes, &createdBy, &updatedBy, &cancelledBy, &cancelledAt,
		&b.CancellationReason, &actualPickup, &actualReturn,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}

	b.DriverID = nullInt(driverID)
	b.VendorID = nullInt(vendorID)
	b.StartMileage = nullInt(startMileage)
	b.EndMileage = nullInt(endMileage)
	b.CreatedBy = nullInt(createdBy)
	b.UpdatedBy = nullInt(updatedBy)
	b.CancelledBy = nullInt(cancelledBy)
	b.CancelledAt = nullTime(cancelledAt)
	b.ActualPickupDate = nullTime(actualPickup)
	b.ActualReturnDate = nullTime(actualReturn)
	return b, nil
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	row := r.DB.QueryRow(`SELECT`+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func (r BookingRepository) GetByNumber(number string) (models.Booking, error) {
	row := r.DB.QueryRow(`SELECT`+bookingColumns+` FROM bookings WHERE booking_number=? LIMIT 1`, number)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

// NumberExists is the collision check used by the identifier generator.
func (r BookingRepository) NumberExists(number string) (bool, error) {
	var one int
	err := r.DB.QueryRow(`SELECT 1 FROM bookings WHERE booking_number=? LIMIT 1`, number).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r BookingRepository) Insert(b *models.Booking) error {
	res, err := r.DB.Exec(`
		INSERT INTO bookings (
			booking_number, vehicle_id, driver_id, customer_id, vendor_id,
			rental_type, driver_required,
			pickup_date, return_date, pickup_time, return_time,
			pickup_location, return_location, number_of_days,
			start_mileage, end_mileage, total_km, extra_km,
			daily_rate, base_amount, extra_km_charges, driver_charges,
			allowance_overtime, allowance_food, allowance_outstation, allowance_parking,
			discount, tax_rate, tax_amount, total_amount, advance_paid, balance_amount,
			status, payment_status, income_accrued, notes, created_by, updated_by
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.BookingNumber, b.VehicleID, b.DriverID, b.CustomerID, b.VendorID,
		string(b.RentalType), b.DriverRequired,
		b.PickupDate, b.ReturnDate, b.PickupTime, b.ReturnTime,
		b.PickupLocation, b.ReturnLocation, b.NumberOfDays,
		b.StartMileage, b.EndMileage, b.TotalKm, b.ExtraKm,
		b.DailyRate, b.BaseAmount, b.ExtraKmCharges, b.DriverCharges,
		b.Allowances.Overtime, b.Allowances.Food, b.Allowances.Outstation, b.Allowances.Parking,
		b.Discount, b.TaxRate, b.TaxAmount, b.TotalAmount, b.AdvancePaid, b.BalanceAmount,
		string(b.Status), string(b.PaymentStatus), b.IncomeAccrued, b.Notes, b.CreatedBy, b.UpdatedBy,
	)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "booking", Msg: "booking number already exists", Err: err}
		}
		return domain.InternalError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	b.ID = id
	return nil
}

// Update writes a sparse set of columns. Callers build the map so the
// repository stays schema-dumb; columns are ordered so the statement is
// stable for a given field set.
func (r BookingRepository) Update(id int64, fields map[string]any) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	if len(fields) == 0 {
		return nil
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, col := range cols {
		sets = append(sets, col+"=?")
		args = append(args, fields[col])
	}
	args = append(args, id)
	_, err := r.DB.Exec(`UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// BookingFilter narrows List results.
type BookingFilter struct {
	Status     string
	CustomerID int64
	VehicleID  int64
	Page       int
	Limit      int
}

func (r BookingRepository) List(f BookingFilter) ([]models.Booking, int, error) {
	where := []string{}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.CustomerID > 0 {
		where = append(where, "customer_id=?")
		args = append(args, f.CustomerID)
	}
	if f.VehicleID > 0 {
		where = append(where, "vehicle_id=?")
		args = append(args, f.VehicleID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings`+clause, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := (page - 1) * limit

	listArgs := append(append([]any{}, args...), limit, offset)
	rows, err := r.DB.Query(`SELECT`+bookingColumns+` FROM bookings`+clause+` ORDER BY id DESC LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return list, total, nil
}

// SumOutstandingByCustomer totals balance_amount over the customer's bookings
// that are neither fully paid nor cancelled.
func (r BookingRepository) SumOutstandingByCustomer(customerID int64) (float64, error) {
	var sum float64
	err := r.DB.QueryRow(`
		SELECT COALESCE(SUM(balance_amount),0)
		FROM bookings
		WHERE customer_id=? AND payment_status<>? AND status<>?`,
		customerID, "paid", "cancelled",
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum outstanding: %w", err)
	}
	return sum, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	x := v.Int64
	return &x
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
