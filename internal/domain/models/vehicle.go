package models

import (
	"time"

	"backend/internal/domain"
)

// Vehicle carries the rate table and state the booking engine reads and flips.
type Vehicle struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	PlateNumber string               `json:"plateNumber"`
	Status      domain.VehicleStatus `json:"status"`
	DailyRate   float64              `json:"dailyRate"`
	WeeklyRate  float64              `json:"weeklyRate"`
	MonthlyRate float64              `json:"monthlyRate"`
	KmLimit     int64                `json:"kmLimit"`
	ExtraKmRate float64              `json:"extraKmRate"`
	Mileage     int64                `json:"mileage"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}
