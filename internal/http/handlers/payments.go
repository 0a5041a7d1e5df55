package handlers

import (
	"net/http"
	"strconv"

	"backend/internal/domain"
	"backend/internal/http/middleware"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

type recordPaymentRequest struct {
	BookingID      int64   `json:"bookingId"`
	PaymentType    string  `json:"paymentType"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"paymentMethod"`
	Notes          string  `json:"notes"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

// POST /api/payments
func RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.PaymentService{RequestID: middleware.GetRequestID(c)}
	payment, err := svc.Record(services.RecordPaymentInput{
		BookingID:      req.BookingID,
		PaymentType:    domain.PaymentType(req.PaymentType),
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
	}, middleware.GetActorID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, payment)
}

type markReceivedRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// PUT /api/payments/:id/received
func MarkPaymentReceived(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req markReceivedRequest
	if c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}

	svc := services.PaymentService{RequestID: middleware.GetRequestID(c)}
	payment, err := svc.MarkReceived(id, req.PaymentMethod, middleware.GetActorID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, payment)
}

// GET /api/payments?bookingId=
func ListPayments(c *gin.Context) {
	bookingID, _ := strconv.ParseInt(c.Query("bookingId"), 10, 64)
	if bookingID <= 0 {
		RespondError(c, http.StatusBadRequest, "bookingId query param is required")
		return
	}
	list, err := services.PaymentService{RequestID: middleware.GetRequestID(c)}.ListByBooking(bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, list)
}

// GET /api/payments/:id
func GetPayment(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	payment, err := services.PaymentService{RequestID: middleware.GetRequestID(c)}.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, payment)
}
