package handlers

import (
	"net/http"
	"strconv"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type vehicleRequest struct {
	Name        string  `json:"name"`
	PlateNumber string  `json:"plateNumber"`
	Status      string  `json:"status"`
	DailyRate   float64 `json:"dailyRate"`
	WeeklyRate  float64 `json:"weeklyRate"`
	MonthlyRate float64 `json:"monthlyRate"`
	KmLimit     int64   `json:"kmLimit"`
	ExtraKmRate float64 `json:"extraKmRate"`
	Mileage     int64   `json:"mileage"`
}

// GET /api/vehicles
func GetVehicles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, total, err := repositories.VehicleRepository{DB: intconfig.DB}.List(c.Query("q"), page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondList(c, list, Paginate(c, total))
}

// GET /api/vehicles/:id
func GetVehicle(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	v, err := repositories.VehicleRepository{DB: intconfig.DB}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, v)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.DailyRate <= 0 {
		RespondError(c, http.StatusBadRequest, "dailyRate must be positive")
		return
	}
	status := domain.VehicleStatus(req.Status)
	if req.Status == "" {
		status = domain.VehicleAvailable
	}
	if !status.Valid() {
		RespondError(c, http.StatusBadRequest, "unknown vehicle status")
		return
	}

	v := models.Vehicle{
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		Status:      status,
		DailyRate:   req.DailyRate,
		WeeklyRate:  req.WeeklyRate,
		MonthlyRate: req.MonthlyRate,
		KmLimit:     req.KmLimit,
		ExtraKmRate: req.ExtraKmRate,
		Mileage:     req.Mileage,
	}
	if err := (repositories.VehicleRepository{DB: intconfig.DB}).Insert(&v); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, v)
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req map[string]any
	if !BindJSONOrError(c, &req) {
		return
	}

	allowed := map[string]string{
		"name": "name", "plateNumber": "plate_number", "status": "status",
		"dailyRate": "daily_rate", "weeklyRate": "weekly_rate", "monthlyRate": "monthly_rate",
		"kmLimit": "km_limit", "extraKmRate": "extra_km_rate", "mileage": "mileage",
	}
	fields := map[string]any{}
	for key, col := range allowed {
		if v, ok := req[key]; ok {
			fields[col] = v
		}
	}
	if status, ok := fields["status"]; ok {
		s, _ := status.(string)
		if !domain.VehicleStatus(s).Valid() {
			RespondError(c, http.StatusBadRequest, "unknown vehicle status")
			return
		}
	}

	repo := repositories.VehicleRepository{DB: intconfig.DB}
	if err := repo.Update(id, fields); err != nil {
		RespondDomainError(c, err)
		return
	}
	v, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, v)
}
