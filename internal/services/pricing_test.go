package services

import (
	"testing"
	"time"

	"backend/internal/domain/models"
)

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestNumberOfDays(t *testing.T) {
	cases := []struct {
		name   string
		pickup time.Time
		ret    time.Time
		want   int
	}{
		{"same instant floors to one", day(0), day(0), 1},
		{"partial day rounds up", day(0), day(0).Add(6 * time.Hour), 1},
		{"just over a day", day(0), day(1).Add(time.Minute), 2},
		{"reversed dates use absolute diff", day(3), day(0), 3},
		{"full week", day(0), day(7), 7},
	}
	for _, tc := range cases {
		if got := NumberOfDays(tc.pickup, tc.ret); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCalculatePricingTiers(t *testing.T) {
	vehicle := models.Vehicle{DailyRate: 100, WeeklyRate: 600, MonthlyRate: 2000}

	cases := []struct {
		name     string
		days     int
		wantBase float64
	}{
		{"six days stay daily", 6, 600},
		{"seven days hit the weekly tier", 7, 600},
		{"ten days mix weekly and daily", 10, 900},
		{"thirty-five days mix monthly and daily", 35, 2500},
	}
	for _, tc := range cases {
		req := PricingRequest{PickupDate: day(0), ReturnDate: day(tc.days)}
		got := CalculatePricing(req, vehicle)
		if got.BaseAmount != tc.wantBase {
			t.Errorf("%s: base = %v, want %v", tc.name, got.BaseAmount, tc.wantBase)
		}
		if got.NumberOfDays != tc.days {
			t.Errorf("%s: days = %d, want %d", tc.name, got.NumberOfDays, tc.days)
		}
	}
}

func TestCalculatePricingTierSkippedWhenRateMissing(t *testing.T) {
	vehicle := models.Vehicle{DailyRate: 100}
	got := CalculatePricing(PricingRequest{PickupDate: day(0), ReturnDate: day(35)}, vehicle)
	if got.BaseAmount != 3500 {
		t.Fatalf("base = %v, want 3500 (daily only when monthly/weekly rates are zero)", got.BaseAmount)
	}
}

func TestCalculatePricingDiscountAndTax(t *testing.T) {
	vehicle := models.Vehicle{DailyRate: 150}
	req := PricingRequest{
		PickupDate: day(0),
		ReturnDate: day(2),
		Discount:   20,
		TaxRate:    10,
	}
	got := CalculatePricing(req, vehicle)

	if got.BaseAmount != 300 {
		t.Fatalf("base = %v, want 300", got.BaseAmount)
	}
	if got.AmountAfterDiscount != 280 {
		t.Fatalf("after discount = %v, want 280", got.AmountAfterDiscount)
	}
	if got.TaxAmount != 28 {
		t.Fatalf("tax = %v, want 28", got.TaxAmount)
	}
	if got.TotalAmount != 308 {
		t.Fatalf("total = %v, want 308", got.TotalAmount)
	}
}

func TestCalculatePricingDiscountNotClamped(t *testing.T) {
	vehicle := models.Vehicle{DailyRate: 50}
	req := PricingRequest{PickupDate: day(0), ReturnDate: day(1), Discount: 100}
	got := CalculatePricing(req, vehicle)
	if got.AmountAfterDiscount != -50 {
		t.Fatalf("after discount = %v, want -50 (flat discount is not clamped)", got.AmountAfterDiscount)
	}
}

func TestCalculatePricingMileageOverage(t *testing.T) {
	vehicle := models.Vehicle{DailyRate: 100, KmLimit: 100, ExtraKmRate: 2}
	start, end := int64(1000), int64(1500)
	req := PricingRequest{
		PickupDate:   day(0),
		ReturnDate:   day(3),
		StartMileage: &start,
		EndMileage:   &end,
	}
	got := CalculatePricing(req, vehicle)

	if got.TotalKm != 500 {
		t.Fatalf("totalKm = %d, want 500", got.TotalKm)
	}
	if got.AllowedKm != 300 {
		t.Fatalf("allowedKm = %d, want 300", got.AllowedKm)
	}
	if got.ExtraKm != 200 {
		t.Fatalf("extraKm = %d, want 200", got.ExtraKm)
	}
	if got.ExtraKmCharges != 400 {
		t.Fatalf("extraKmCharges = %v, want 400", got.ExtraKmCharges)
	}
}

func TestCalculatePricingNoKmLimitNeverCharges(t *testing.T) {
	vehicle := models.Vehicle{DailyRate: 100, ExtraKmRate: 2}
	start, end := int64(0), int64(9999)
	req := PricingRequest{PickupDate: day(0), ReturnDate: day(1), StartMileage: &start, EndMileage: &end}
	got := CalculatePricing(req, vehicle)
	if got.ExtraKm != 0 || got.ExtraKmCharges != 0 {
		t.Fatalf("extraKm = %d charges = %v, want zero when no km limit is set", got.ExtraKm, got.ExtraKmCharges)
	}
}

func TestCalculatePricingMileageSkippedWhenIncomplete(t *testing.T) {
	vehicle := models.Vehicle{DailyRate: 100, KmLimit: 10, ExtraKmRate: 5}
	start := int64(1000)
	req := PricingRequest{PickupDate: day(0), ReturnDate: day(1), StartMileage: &start}
	got := CalculatePricing(req, vehicle)
	if got.TotalKm != 0 || got.ExtraKmCharges != 0 {
		t.Fatalf("mileage block should be skipped without both readings, got totalKm=%d charges=%v", got.TotalKm, got.ExtraKmCharges)
	}
}

func allowanceDriver() *models.Driver {
	return &models.Driver{
		Status: "active",
		Allowances: models.DriverAllowanceConfig{
			FoodEnabled:            true,
			FoodDailyRate:          50,
			OutstationEnabled:      true,
			OutstationDailyRate:    100,
			ParkingEnabled:         true,
			ParkingDailyRate:       25,
			OvertimeEnabled:        true,
			OvertimeHoursThreshold: 20,
			OvertimeRatePerHour:    10,
		},
	}
}

func TestCalculateDriverChargesNilDriver(t *testing.T) {
	got := CalculateDriverCharges(nil, PricingRequest{PickupDate: day(0), ReturnDate: day(2)})
	if got.Total != 0 {
		t.Fatalf("total = %v, want 0 for nil driver", got.Total)
	}
}

func TestCalculateDriverChargesAllEnabled(t *testing.T) {
	req := PricingRequest{
		PickupDate:     day(0),
		ReturnDate:     day(2),
		PickupLocation: "Mumbai",
		ReturnLocation: "Pune",
	}
	got := CalculateDriverCharges(allowanceDriver(), req)

	if got.Allowances.Food != 100 {
		t.Errorf("food = %v, want 100", got.Allowances.Food)
	}
	if got.Allowances.Outstation != 200 {
		t.Errorf("outstation = %v, want 200", got.Allowances.Outstation)
	}
	if got.Allowances.Parking != 50 {
		t.Errorf("parking = %v, want 50", got.Allowances.Parking)
	}
	// 2 days * (24 - 20) hours * 10/hour
	if got.Allowances.Overtime != 80 {
		t.Errorf("overtime = %v, want 80", got.Allowances.Overtime)
	}
	if got.Total != 430 {
		t.Errorf("total = %v, want 430", got.Total)
	}
}

func TestOutstationMatchIsCaseInsensitive(t *testing.T) {
	req := PricingRequest{
		PickupDate:     day(0),
		ReturnDate:     day(1),
		PickupLocation: "Mumbai",
		ReturnLocation: " mumbai ",
	}
	got := CalculateDriverCharges(allowanceDriver(), req)
	if got.Allowances.Outstation != 0 {
		t.Fatalf("outstation = %v, want 0 for same location in different case", got.Allowances.Outstation)
	}
}

func TestOvertimeNeverNegative(t *testing.T) {
	d := allowanceDriver()
	d.Allowances = models.DriverAllowanceConfig{
		OvertimeEnabled:        true,
		OvertimeHoursThreshold: 30,
		OvertimeRatePerHour:    10,
	}
	got := CalculateDriverCharges(d, PricingRequest{PickupDate: day(0), ReturnDate: day(2)})
	if got.Allowances.Overtime != 0 {
		t.Fatalf("overtime = %v, want 0 when threshold exceeds 24h/day", got.Allowances.Overtime)
	}
}
