package handlers

import (
	"net/http"

	intconfig "backend/internal/config"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	RespondData(c, http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		RespondError(c, http.StatusInternalServerError, "database is not connected")
		return
	}
	var count int
	if err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&count); err != nil {
		RespondError(c, http.StatusInternalServerError, "database query failed: "+err.Error())
		return
	}
	RespondData(c, http.StatusOK, gin.H{"status": "ok", "bookings_in_db": count})
}
