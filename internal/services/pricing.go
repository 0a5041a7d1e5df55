package services

import (
	"math"
	"strings"
	"time"

	"backend/internal/domain/models"
	"backend/internal/utils"
)

// PricingRequest carries the booking parameters that feed the calculators.
// It is storage-free so the pricing-preview endpoint can reuse it verbatim.
type PricingRequest struct {
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupLocation string
	ReturnLocation string
	StartMileage   *int64
	EndMileage     *int64
	Discount       float64
	TaxRate        float64
}

// PricingBreakdown exposes every intermediate value of the calculation.
type PricingBreakdown struct {
	NumberOfDays        int     `json:"numberOfDays"`
	DailyRate           float64 `json:"dailyRate"`
	BaseAmount          float64 `json:"baseAmount"`
	TotalKm             int64   `json:"totalKm"`
	AllowedKm           int64   `json:"allowedKm"`
	ExtraKm             int64   `json:"extraKm"`
	ExtraKmCharges      float64 `json:"extraKmCharges"`
	Discount            float64 `json:"discount"`
	AmountAfterDiscount float64 `json:"amountAfterDiscount"`
	TaxRate             float64 `json:"taxRate"`
	TaxAmount           float64 `json:"taxAmount"`
	TotalAmount         float64 `json:"totalAmount"`
}

// DriverCharges is the allowance calculator result.
type DriverCharges struct {
	Allowances models.DriverAllowances `json:"allowances"`
	Total      float64                 `json:"driverCharges"`
}

// NumberOfDays is ceil(|return - pickup| in days), floored at one day.
func NumberOfDays(pickup, ret time.Time) int {
	ms := ret.Sub(pickup).Milliseconds()
	if ms < 0 {
		ms = -ms
	}
	days := int(math.Ceil(float64(ms) / 86400000.0))
	if days < 1 {
		days = 1
	}
	return days
}

// CalculatePricing computes the tiered base amount, mileage overage, discount
// and tax for one booking. Pure: no I/O, safe to call repeatedly. Driver
// charges are added by the caller afterwards.
func CalculatePricing(req PricingRequest, vehicle models.Vehicle) PricingBreakdown {
	days := NumberOfDays(req.PickupDate, req.ReturnDate)

	// Tier precedence: monthly, then weekly, then daily.
	var base float64
	switch {
	case days >= 30 && vehicle.MonthlyRate > 0:
		base = float64(days/30)*vehicle.MonthlyRate + float64(days%30)*vehicle.DailyRate
	case days >= 7 && vehicle.WeeklyRate > 0:
		base = float64(days/7)*vehicle.WeeklyRate + float64(days%7)*vehicle.DailyRate
	default:
		base = float64(days) * vehicle.DailyRate
	}

	var totalKm, allowedKm, extraKm int64
	var extraKmCharges float64
	if req.StartMileage != nil && req.EndMileage != nil {
		totalKm = *req.EndMileage - *req.StartMileage
		if totalKm < 0 {
			totalKm = 0
		}
		if vehicle.KmLimit > 0 {
			allowedKm = int64(days) * vehicle.KmLimit
		} else {
			// No limit configured: overage is never charged.
			allowedKm = totalKm
		}
		extraKm = totalKm - allowedKm
		if extraKm < 0 {
			extraKm = 0
		}
		extraKmCharges = float64(extraKm) * vehicle.ExtraKmRate
	}

	// Flat discount, deliberately not clamped at zero.
	afterDiscount := base + extraKmCharges - req.Discount
	taxAmount := utils.Round2(afterDiscount * req.TaxRate / 100)
	total := utils.Round2(afterDiscount + taxAmount)

	return PricingBreakdown{
		NumberOfDays:        days,
		DailyRate:           vehicle.DailyRate,
		BaseAmount:          utils.Round2(base),
		TotalKm:             totalKm,
		AllowedKm:           allowedKm,
		ExtraKm:             extraKm,
		ExtraKmCharges:      utils.Round2(extraKmCharges),
		Discount:            req.Discount,
		AmountAfterDiscount: utils.Round2(afterDiscount),
		TaxRate:             req.TaxRate,
		TaxAmount:           taxAmount,
		TotalAmount:         total,
	}
}

// CalculateDriverCharges computes the driver-specific add-ons for a booking.
// The overtime model assumes 24 operational hours per rental day; it is a
// deliberate approximation, not clock-based time tracking.
func CalculateDriverCharges(driver *models.Driver, req PricingRequest) DriverCharges {
	if driver == nil {
		return DriverCharges{}
	}

	days := float64(NumberOfDays(req.PickupDate, req.ReturnDate))
	cfg := driver.Allowances

	var out DriverCharges
	if cfg.FoodEnabled {
		out.Allowances.Food = utils.Round2(days * cfg.FoodDailyRate)
	}
	if cfg.OutstationEnabled && isOutstation(req.PickupLocation, req.ReturnLocation) {
		out.Allowances.Outstation = utils.Round2(days * cfg.OutstationDailyRate)
	}
	if cfg.ParkingEnabled {
		out.Allowances.Parking = utils.Round2(days * cfg.ParkingDailyRate)
	}
	if cfg.OvertimeEnabled {
		overtimeHours := days*24 - days*cfg.OvertimeHoursThreshold
		if overtimeHours < 0 {
			overtimeHours = 0
		}
		out.Allowances.Overtime = utils.Round2(overtimeHours * cfg.OvertimeRatePerHour)
	}

	out.Total = utils.Round2(out.Allowances.Sum())
	return out
}

func isOutstation(pickup, ret string) bool {
	a := strings.ToLower(strings.TrimSpace(pickup))
	b := strings.ToLower(strings.TrimSpace(ret))
	return a != "" && b != "" && a != b
}
