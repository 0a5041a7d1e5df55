package handlers

import (
	"log"
	"net/http"

	"backend/internal/domain"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses. Internal details
// are logged against the request id, never returned to the client.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("[ERROR] request_id=%s err=%v", middleware.GetRequestID(c), err)
		RespondError(c, http.StatusInternalServerError, "internal server error")
	}
}
