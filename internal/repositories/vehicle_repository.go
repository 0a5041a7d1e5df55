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

const vehicleColumns = `
	id, name, plate_number, status, daily_rate, weekly_rate, monthly_rate,
	km_limit, extra_km_rate, mileage, created_at, updated_at`

type VehicleRepository struct {
	DB intdb.DBTX
}

func scanVehicle(row bookingScanner) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID, &v.Name, &v.PlateNumber, &v.Status, &v.DailyRate, &v.WeeklyRate, &v.MonthlyRate,
		&v.KmLimit, &v.ExtraKmRate, &v.Mileage, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "vehicleId", Msg: "invalid id"}
	}
	row := r.DB.QueryRow(`SELECT`+vehicleColumns+` FROM vehicles WHERE id=? LIMIT 1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	if err != nil {
		return models.Vehicle{}, domain.InternalError{Err: err}
	}
	return v, nil
}

func (r VehicleRepository) UpdateStatus(id int64, status domain.VehicleStatus) error {
	_, err := r.DB.Exec(`UPDATE vehicles SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r VehicleRepository) UpdateMileage(id int64, mileage int64) error {
	_, err := r.DB.Exec(`UPDATE vehicles SET mileage=? WHERE id=?`, mileage, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r VehicleRepository) Insert(v *models.Vehicle) error {
	res, err := r.DB.Exec(`
		INSERT INTO vehicles (name, plate_number, status, daily_rate, weekly_rate, monthly_rate, km_limit, extra_km_rate, mileage)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		v.Name, v.PlateNumber, string(v.Status), v.DailyRate, v.WeeklyRate, v.MonthlyRate, v.KmLimit, v.ExtraKmRate, v.Mileage,
	)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "vehicle", Msg: "plate number already registered", Err: err}
		}
		return domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	v.ID = id
	return nil
}

func (r VehicleRepository) Update(id int64, fields map[string]any) error {
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
	_, err := r.DB.Exec(`UPDATE vehicles SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "vehicle", Msg: "plate number already registered", Err: err}
		}
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r VehicleRepository) List(q string, page, limit int) ([]models.Vehicle, int, error) {
	where := ""
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		where = ` WHERE (name LIKE ? OR plate_number LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM vehicles`+where, args...).Scan(&total); err != nil {
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

	rows, err := r.DB.Query(`SELECT`+vehicleColumns+` FROM vehicles`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return list, total, nil
}
