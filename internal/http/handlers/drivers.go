package handlers

import (
	"net/http"
	"strconv"

	intconfig "backend/internal/config"
	"backend/internal/domain/models"
	"backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type driverRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"licenseNumber"`
	Status        string `json:"status"`

	OvertimeEnabled        bool    `json:"overtimeEnabled"`
	OvertimeHoursThreshold float64 `json:"overtimeHoursThreshold"`
	OvertimeRatePerHour    float64 `json:"overtimeRatePerHour"`
	FoodEnabled            bool    `json:"foodEnabled"`
	FoodDailyRate          float64 `json:"foodDailyRate"`
	OutstationEnabled      bool    `json:"outstationEnabled"`
	OutstationDailyRate    float64 `json:"outstationDailyRate"`
	ParkingEnabled         bool    `json:"parkingEnabled"`
	ParkingDailyRate       float64 `json:"parkingDailyRate"`
}

// GET /api/drivers
func GetDrivers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, total, err := repositories.DriverRepository{DB: intconfig.DB}.List(c.Query("q"), page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondList(c, list, Paginate(c, total))
}

// GET /api/drivers/:id
func GetDriver(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	d, err := repositories.DriverRepository{DB: intconfig.DB}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, d)
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Name == "" {
		RespondError(c, http.StatusBadRequest, "name is required")
		return
	}
	status := req.Status
	if status == "" {
		status = "active"
	}

	d := models.Driver{
		Name:          req.Name,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		Status:        status,
		Allowances: models.DriverAllowanceConfig{
			OvertimeEnabled:        req.OvertimeEnabled,
			OvertimeHoursThreshold: req.OvertimeHoursThreshold,
			OvertimeRatePerHour:    req.OvertimeRatePerHour,
			FoodEnabled:            req.FoodEnabled,
			FoodDailyRate:          req.FoodDailyRate,
			OutstationEnabled:      req.OutstationEnabled,
			OutstationDailyRate:    req.OutstationDailyRate,
			ParkingEnabled:         req.ParkingEnabled,
			ParkingDailyRate:       req.ParkingDailyRate,
		},
	}
	if err := (repositories.DriverRepository{DB: intconfig.DB}).Insert(&d); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, d)
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req map[string]any
	if !BindJSONOrError(c, &req) {
		return
	}

	allowed := map[string]string{
		"name": "name", "phone": "phone", "licenseNumber": "license_number", "status": "status",
		"overtimeEnabled": "overtime_enabled", "overtimeHoursThreshold": "overtime_hours_threshold",
		"overtimeRatePerHour": "overtime_rate_per_hour",
		"foodEnabled":         "food_enabled", "foodDailyRate": "food_daily_rate",
		"outstationEnabled": "outstation_enabled", "outstationDailyRate": "outstation_daily_rate",
		"parkingEnabled": "parking_enabled", "parkingDailyRate": "parking_daily_rate",
	}
	fields := map[string]any{}
	for key, col := range allowed {
		if v, ok := req[key]; ok {
			fields[col] = v
		}
	}

	repo := repositories.DriverRepository{DB: intconfig.DB}
	if err := repo.Update(id, fields); err != nil {
		RespondDomainError(c, err)
		return
	}
	d, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, d)
}
