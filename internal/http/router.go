package api

import (
	"log"
	stdhttp "net/http"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Public storefront path, no token required.
		api.POST("/public/bookings", h.CreatePublicBooking)
		api.POST("/bookings/pricing-preview", h.PricingPreview)

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(env.JWTSecret))
		{
			// Bookings
			bookings := authed.Group("/bookings")
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.PUT("/:id", h.UpdateBooking)
			bookings.PUT("/:id/status", h.SetBookingStatus)
			bookings.GET("/:id/invoice", h.GetBookingInvoicePDF)

			// Payments
			payments := authed.Group("/payments")
			payments.POST("", h.RecordPayment)
			payments.GET("", h.ListPayments)
			payments.GET("/:id", h.GetPayment)
			payments.PUT("/:id/received", h.MarkPaymentReceived)

			// Vehicles
			vehicles := authed.Group("/vehicles")
			vehicles.GET("", h.GetVehicles)
			vehicles.GET("/:id", h.GetVehicle)
			vehicles.POST("", h.CreateVehicle)
			vehicles.PUT("/:id", h.UpdateVehicle)

			// Drivers
			drivers := authed.Group("/drivers")
			drivers.GET("", h.GetDrivers)
			drivers.GET("/:id", h.GetDriver)
			drivers.POST("", h.CreateDriver)
			drivers.PUT("/:id", h.UpdateDriver)

			// Customers
			customers := authed.Group("/customers")
			customers.GET("", h.GetCustomers)
			customers.GET("/:id", h.GetCustomer)
		}
	}

	return r
}
