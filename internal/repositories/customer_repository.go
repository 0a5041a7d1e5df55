package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

const customerColumns = `
	id, name, email, COALESCE(phone,''), total_bookings, total_spent,
	outstanding_balance, created_at, updated_at`

type CustomerRepository struct {
	DB intdb.DBTX
}

func scanCustomer(row bookingScanner) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.TotalBookings, &c.TotalSpent,
		&c.OutstandingBalance, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r CustomerRepository) GetByID(id int64) (models.Customer, error) {
	if id <= 0 {
		return models.Customer{}, domain.ValidationError{Field: "customerId", Msg: "invalid id"}
	}
	row := r.DB.QueryRow(`SELECT`+customerColumns+` FROM customers WHERE id=? LIMIT 1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, domain.NotFoundError{Resource: "customer", Err: err}
	}
	if err != nil {
		return models.Customer{}, domain.InternalError{Err: err}
	}
	return c, nil
}

func (r CustomerRepository) FindByEmail(email string) (models.Customer, bool, error) {
	row := r.DB.QueryRow(`SELECT`+customerColumns+` FROM customers WHERE email=? LIMIT 1`, email)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, false, nil
	}
	if err != nil {
		return models.Customer{}, false, domain.InternalError{Err: err}
	}
	return c, true, nil
}

// FindOrCreateByEmail resolves the customer for public bookings. Email is the
// only dedup key; phone numbers are not assumed unique.
func (r CustomerRepository) FindOrCreateByEmail(email, name, phone string) (models.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.Customer{}, domain.ValidationError{Field: "email", Msg: "email is required"}
	}

	if c, found, err := r.FindByEmail(email); err != nil {
		return models.Customer{}, err
	} else if found {
		return c, nil
	}

	res, err := r.DB.Exec(`INSERT INTO customers (name, email, phone) VALUES (?,?,?)`,
		strings.TrimSpace(name), email, strings.TrimSpace(phone))
	if err != nil {
		// A concurrent request may have created the same email first.
		if intdb.IsDuplicate(err) {
			if c, found, ferr := r.FindByEmail(email); ferr == nil && found {
				return c, nil
			}
		}
		return models.Customer{}, domain.InternalError{Msg: "failed to resolve customer", Err: err}
	}

	id, _ := res.LastInsertId()
	return models.Customer{ID: id, Name: strings.TrimSpace(name), Email: email, Phone: strings.TrimSpace(phone)}, nil
}

func (r CustomerRepository) UpdateOutstandingBalance(id int64, amount float64) error {
	_, err := r.DB.Exec(`UPDATE customers SET outstanding_balance=? WHERE id=?`, amount, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// IncrementStats bumps booking counters when a booking is created for the
// customer.
func (r CustomerRepository) IncrementStats(id int64, bookings int64, spent float64) error {
	_, err := r.DB.Exec(`
		UPDATE customers
		SET total_bookings = total_bookings + ?, total_spent = total_spent + ?
		WHERE id=?`,
		bookings, spent, id,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r CustomerRepository) List(q string, page, limit int) ([]models.Customer, int, error) {
	where := ""
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		where = ` WHERE (name LIKE ? OR email LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := r.DB.Query(`SELECT`+customerColumns+` FROM customers`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return list, total, nil
}
