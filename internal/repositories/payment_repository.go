package repositories

import (
	"database/sql"
	"errors"
	"time"

	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

const paymentColumns = `
	id, payment_number, booking_id, payment_type, customer_id, vendor_id, driver_id,
	amount, COALESCE(payment_method,''), status, COALESCE(idempotency_key,''),
	COALESCE(notes,''), received_by, created_at, updated_at`

type PaymentRepository struct {
	DB intdb.DBTX
}

func scanPayment(row bookingScanner) (models.Payment, error) {
	var (
		p          models.Payment
		customerID sql.NullInt64
		vendorID   sql.NullInt64
		driverID   sql.NullInt64
		receivedBy sql.NullInt64
	)
	err := row.Scan(
		&p.ID, &p.PaymentNumber, &p.BookingID, &p.PaymentType, &customerID, &vendorID, &driverID,
		&p.Amount, &p.PaymentMethod, &p.Status, &p.IdempotencyKey,
		&p.Notes, &receivedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Payment{}, err
	}
	p.CustomerID = nullInt(customerID)
	p.VendorID = nullInt(vendorID)
	p.DriverID = nullInt(driverID)
	p.ReceivedBy = nullInt(receivedBy)
	return p, nil
}

func (r PaymentRepository) GetByID(id int64) (models.Payment, error) {
	if id <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	row := r.DB.QueryRow(`SELECT`+paymentColumns+` FROM payments WHERE id=? LIMIT 1`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, domain.NotFoundError{Resource: "payment", Err: err}
	}
	return p, err
}

// GetByIdempotencyKey resolves a previously recorded payment, allowing safe
// client retries.
func (r PaymentRepository) GetByIdempotencyKey(key string) (models.Payment, bool, error) {
	row := r.DB.QueryRow(`SELECT`+paymentColumns+` FROM payments WHERE idempotency_key=? LIMIT 1`, key)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, false, nil
	}
	if err != nil {
		return models.Payment{}, false, err
	}
	return p, true, nil
}

func (r PaymentRepository) NumberExists(number string) (bool, error) {
	var one int
	err := r.DB.QueryRow(`SELECT 1 FROM payments WHERE payment_number=? LIMIT 1`, number).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r PaymentRepository) Insert(p *models.Payment) error {
	res, err := r.DB.Exec(`
		INSERT INTO payments (
			payment_number, booking_id, payment_type, customer_id, vendor_id, driver_id,
			amount, payment_method, status, idempotency_key, notes, received_by
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.PaymentNumber, p.BookingID, string(p.PaymentType), p.CustomerID, p.VendorID, p.DriverID,
		p.Amount, p.PaymentMethod, string(p.Status), intdb.NullIfEmpty(p.IdempotencyKey), p.Notes, p.ReceivedBy,
	)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "payment", Msg: "payment number or idempotency key already exists", Err: err}
		}
		return domain.InternalError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	p.ID = id
	return nil
}

func (r PaymentRepository) ListByBooking(bookingID int64) ([]models.Payment, error) {
	rows, err := r.DB.Query(`SELECT`+paymentColumns+` FROM payments WHERE booking_id=? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return list, nil
}

// SumCompletedReceivables is the reconciliation input: the full completed
// receivable set is summed every time instead of incrementing a counter.
func (r PaymentRepository) SumCompletedReceivables(bookingID int64) (float64, error) {
	var sum float64
	err := r.DB.QueryRow(`
		SELECT COALESCE(SUM(amount),0)
		FROM payments
		WHERE booking_id=? AND payment_type=? AND status=?`,
		bookingID, string(domain.PaymentReceivable), string(domain.PaymentStateCompleted),
	).Scan(&sum)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return sum, nil
}

// MarkCompleted flips a pending payment to completed. The amount is immutable.
func (r PaymentRepository) MarkCompleted(id int64, method string, actorID *int64, now time.Time) error {
	res, err := r.DB.Exec(`
		UPDATE payments
		SET status=?, payment_method=COALESCE(NULLIF(?,''), payment_method), received_by=?, updated_at=?
		WHERE id=? AND status=?`,
		string(domain.PaymentStateCompleted), method, actorID, now, id, string(domain.PaymentStatePending),
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.ConflictError{Resource: "payment", Msg: "payment is not pending"}
	}
	return nil
}
