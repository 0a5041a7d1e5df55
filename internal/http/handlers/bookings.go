package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	VehicleID      int64   `json:"vehicleId"`
	CustomerID     int64   `json:"customerId"`
	DriverID       *int64  `json:"driverId"`
	VendorID       *int64  `json:"vendorId"`
	RentalType     string  `json:"rentalType"`
	DriverRequired bool    `json:"driverRequired"`
	PickupDate     string  `json:"pickupDate"`
	ReturnDate     string  `json:"returnDate"`
	PickupTime     string  `json:"pickupTime"`
	ReturnTime     string  `json:"returnTime"`
	PickupLocation string  `json:"pickupLocation"`
	ReturnLocation string  `json:"returnLocation"`
	StartMileage   *int64  `json:"startMileage"`
	EndMileage     *int64  `json:"endMileage"`
	Discount       float64 `json:"discount"`
	TaxRate        float64 `json:"taxRate"`
	Notes          string  `json:"notes"`
	Confirmed      bool    `json:"confirmed"`
}

func parseDateField(c *gin.Context, field, raw string) (time.Time, bool) {
	if t, err := utils.ParseDateTime(raw); err == nil {
		return t, true
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, field+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	pickup, ok := parseDateField(c, "pickupDate", req.PickupDate)
	if !ok {
		return
	}
	ret, ok := parseDateField(c, "returnDate", req.ReturnDate)
	if !ok {
		return
	}

	svc := services.BookingService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.Create(services.CreateBookingInput{
		VehicleID:      req.VehicleID,
		CustomerID:     req.CustomerID,
		DriverID:       req.DriverID,
		VendorID:       req.VendorID,
		RentalType:     domain.RentalType(req.RentalType),
		DriverRequired: req.DriverRequired,
		PickupDate:     pickup,
		ReturnDate:     ret,
		PickupTime:     req.PickupTime,
		ReturnTime:     req.ReturnTime,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		StartMileage:   req.StartMileage,
		EndMileage:     req.EndMileage,
		Discount:       req.Discount,
		TaxRate:        req.TaxRate,
		Notes:          req.Notes,
		Confirmed:      req.Confirmed,
	}, middleware.GetActorID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, booking)
}

type publicBookingRequest struct {
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	CustomerPhone  string  `json:"customerPhone"`
	VehicleID      int64   `json:"vehicleId"`
	RentalType     string  `json:"rentalType"`
	PickupDate     string  `json:"pickupDate"`
	ReturnDate     string  `json:"returnDate"`
	PickupTime     string  `json:"pickupTime"`
	ReturnTime     string  `json:"returnTime"`
	PickupLocation string  `json:"pickupLocation"`
	ReturnLocation string  `json:"returnLocation"`
	Discount       float64 `json:"discount"`
	TaxRate        float64 `json:"taxRate"`
	Notes          string  `json:"notes"`
}

// POST /api/public/bookings
func CreatePublicBooking(c *gin.Context) {
	var req publicBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	pickup, ok := parseDateField(c, "pickupDate", req.PickupDate)
	if !ok {
		return
	}
	ret, ok := parseDateField(c, "returnDate", req.ReturnDate)
	if !ok {
		return
	}

	svc := services.BookingService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.CreatePublic(services.PublicBookingInput{
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		VehicleID:      req.VehicleID,
		RentalType:     domain.RentalType(req.RentalType),
		PickupDate:     pickup,
		ReturnDate:     ret,
		PickupTime:     req.PickupTime,
		ReturnTime:     req.ReturnTime,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		Discount:       req.Discount,
		TaxRate:        req.TaxRate,
		Notes:          req.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, booking)
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	booking, err := services.BookingService{RequestID: middleware.GetRequestID(c)}.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, booking)
}

// GET /api/bookings
func ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	customerID, _ := strconv.ParseInt(c.Query("customerId"), 10, 64)
	vehicleID, _ := strconv.ParseInt(c.Query("vehicleId"), 10, 64)

	list, total, err := services.BookingService{RequestID: middleware.GetRequestID(c)}.List(repositories.BookingFilter{
		Status:     c.Query("status"),
		CustomerID: customerID,
		VehicleID:  vehicleID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondList(c, list, Paginate(c, total))
}

type updateBookingRequest struct {
	PickupDate     *string  `json:"pickupDate"`
	ReturnDate     *string  `json:"returnDate"`
	PickupTime     *string  `json:"pickupTime"`
	ReturnTime     *string  `json:"returnTime"`
	PickupLocation *string  `json:"pickupLocation"`
	ReturnLocation *string  `json:"returnLocation"`
	StartMileage   *int64   `json:"startMileage"`
	EndMileage     *int64   `json:"endMileage"`
	DriverID       *int64   `json:"driverId"`
	Discount       *float64 `json:"discount"`
	TaxRate        *float64 `json:"taxRate"`
	Notes          *string  `json:"notes"`
}

// PUT /api/bookings/:id
func UpdateBooking(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	actor := middleware.GetActorID(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "missing actor")
		return
	}

	raw, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

	var req updateBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	// Presence of driverId (even as null) means the assignment changes.
	var keys map[string]json.RawMessage
	_ = json.Unmarshal(raw, &keys)
	_, driverSet := keys["driverId"]

	patch := buildBookingPatch(c, req, driverSet)
	if patch == nil {
		return
	}

	booking, err := services.BookingService{RequestID: middleware.GetRequestID(c)}.Update(id, *patch, *actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, booking)
}

func buildBookingPatch(c *gin.Context, req updateBookingRequest, driverSet bool) *models.BookingPatch {
	patch := models.BookingPatch{
		PickupTime:     req.PickupTime,
		ReturnTime:     req.ReturnTime,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		StartMileage:   req.StartMileage,
		EndMileage:     req.EndMileage,
		DriverID:       req.DriverID,
		DriverSet:      driverSet,
		Discount:       req.Discount,
		TaxRate:        req.TaxRate,
		Notes:          req.Notes,
	}
	if req.PickupDate != nil {
		t, ok := parseDateField(c, "pickupDate", *req.PickupDate)
		if !ok {
			return nil
		}
		patch.PickupDate = &t
	}
	if req.ReturnDate != nil {
		t, ok := parseDateField(c, "returnDate", *req.ReturnDate)
		if !ok {
			return nil
		}
		patch.ReturnDate = &t
	}
	return &patch
}

type setStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// PUT /api/bookings/:id/status
func SetBookingStatus(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	actor := middleware.GetActorID(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "missing actor")
		return
	}

	var req setStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	booking, err := services.BookingService{RequestID: middleware.GetRequestID(c)}.SetStatus(id, status, *actor, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, booking)
}

type pricingPreviewRequest struct {
	VehicleID      int64   `json:"vehicleId"`
	DriverID       *int64  `json:"driverId"`
	PickupDate     string  `json:"pickupDate"`
	ReturnDate     string  `json:"returnDate"`
	PickupLocation string  `json:"pickupLocation"`
	ReturnLocation string  `json:"returnLocation"`
	StartMileage   *int64  `json:"startMileage"`
	EndMileage     *int64  `json:"endMileage"`
	Discount       float64 `json:"discount"`
	TaxRate        float64 `json:"taxRate"`
}

// POST /api/bookings/pricing-preview
func PricingPreview(c *gin.Context) {
	var req pricingPreviewRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	pickup, ok := parseDateField(c, "pickupDate", req.PickupDate)
	if !ok {
		return
	}
	ret, ok := parseDateField(c, "returnDate", req.ReturnDate)
	if !ok {
		return
	}

	vehicle, err := repositories.VehicleRepository{DB: intconfig.DB}.GetByID(req.VehicleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	preq := services.PricingRequest{
		PickupDate:     pickup,
		ReturnDate:     ret,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		StartMileage:   req.StartMileage,
		EndMileage:     req.EndMileage,
		Discount:       req.Discount,
		TaxRate:        req.TaxRate,
	}
	breakdown := services.CalculatePricing(preq, vehicle)

	var charges services.DriverCharges
	if req.DriverID != nil {
		driver, err := repositories.DriverRepository{DB: intconfig.DB}.GetByID(*req.DriverID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		charges = services.CalculateDriverCharges(&driver, preq)
	}

	RespondData(c, http.StatusOK, gin.H{
		"pricing":       breakdown,
		"driverCharges": charges,
		"totalAmount":   utils.Round2(breakdown.TotalAmount + charges.Total),
	})
}

// GET /api/bookings/:id/invoice
func GetBookingInvoicePDF(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	pdf, filename, err := services.DocsService{RequestID: middleware.GetRequestID(c)}.GenerateInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
