package repositories

import (
	"database/sql"
	"errors"
	"sort"
	"strings"

	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

const driverColumns = `
	id, name, COALESCE(phone,''), COALESCE(license_number,''), status,
	overtime_enabled, overtime_hours_threshold, overtime_rate_per_hour,
	food_enabled, food_daily_rate,
	outstation_enabled, outstation_daily_rate,
	parking_enabled, parking_daily_rate,
	total_trips, total_km_driven, total_earnings, created_at, updated_at`

type DriverRepository struct {
	DB intdb.DBTX
}

func scanDriver(row bookingScanner) (models.Driver, error) {
	var d models.Driver
	err := row.Scan(
		&d.ID, &d.Name, &d.Phone, &d.LicenseNumber, &d.Status,
		&d.Allowances.OvertimeEnabled, &d.Allowances.OvertimeHoursThreshold, &d.Allowances.OvertimeRatePerHour,
		&d.Allowances.FoodEnabled, &d.Allowances.FoodDailyRate,
		&d.Allowances.OutstationEnabled, &d.Allowances.OutstationDailyRate,
		&d.Allowances.ParkingEnabled, &d.Allowances.ParkingDailyRate,
		&d.TotalTrips, &d.TotalKmDriven, &d.TotalEarnings, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (r DriverRepository) GetByID(id int64) (models.Driver, error) {
	if id <= 0 {
		return models.Driver{}, domain.ValidationError{Field: "driverId", Msg: "invalid id"}
	}
	row := r.DB.QueryRow(`SELECT`+driverColumns+` FROM drivers WHERE id=? LIMIT 1`, id)
	d, err := scanDriver(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Driver{}, domain.NotFoundError{Resource: "driver", Err: err}
	}
	if err != nil {
		return models.Driver{}, domain.InternalError{Err: err}
	}
	return d, nil
}

// IncrementStats credits the driver's cumulative counters after a trip is
// completed and fully paid.
func (r DriverRepository) IncrementStats(id int64, trips, kmDriven int64, earnings float64) error {
	_, err := r.DB.Exec(`
		UPDATE drivers
		SET total_trips = total_trips + ?,
		    total_km_driven = total_km_driven + ?,
		    total_earnings = total_earnings + ?
		WHERE id=?`,
		trips, kmDriven, earnings, id,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r DriverRepository) Insert(d *models.Driver) error {
	res, err := r.DB.Exec(`
		INSERT INTO drivers (
			name, phone, license_number, status,
			overtime_enabled, overtime_hours_threshold, overtime_rate_per_hour,
			food_enabled, food_daily_rate,
			outstation_enabled, outstation_daily_rate,
			parking_enabled, parking_daily_rate
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		d.Name, d.Phone, d.LicenseNumber, d.Status,
		d.Allowances.OvertimeEnabled, d.Allowances.OvertimeHoursThreshold, d.Allowances.OvertimeRatePerHour,
		d.Allowances.FoodEnabled, d.Allowances.FoodDailyRate,
		d.Allowances.OutstationEnabled, d.Allowances.OutstationDailyRate,
		d.Allowances.ParkingEnabled, d.Allowances.ParkingDailyRate,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	d.ID = id
	return nil
}

func (r DriverRepository) Update(id int64, fields map[string]any) error {
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
	_, err := r.DB.Exec(`UPDATE drivers SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r DriverRepository) List(q string, page, limit int) ([]models.Driver, int, error) {
	where := ""
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		where = ` WHERE (name LIKE ? OR license_number LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM drivers`+where, args...).Scan(&total); err != nil {
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

	rows, err := r.DB.Query(`SELECT`+driverColumns+` FROM drivers`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return list, total, nil
}
