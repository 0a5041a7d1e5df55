package models

import "time"

// DriverAllowanceConfig holds the per-driver enabled flags and rates used by
// the allowance calculator.
type DriverAllowanceConfig struct {
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

// Driver is an assignable driver with allowance config and cumulative counters.
type Driver struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Phone         string                `json:"phone,omitempty"`
	LicenseNumber string                `json:"licenseNumber,omitempty"`
	Status        string                `json:"status"`
	Allowances    DriverAllowanceConfig `json:"allowances"`
	TotalTrips    int64                 `json:"totalTrips"`
	TotalKmDriven int64                 `json:"totalKmDriven"`
	TotalEarnings float64               `json:"totalEarnings"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// Active reports whether the driver can be assigned to new bookings.
func (d Driver) Active() bool {
	return d.Status == "active"
}
