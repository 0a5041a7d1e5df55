package handlers

import (
	"net/http"
	"strconv"

	intconfig "backend/internal/config"
	"backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/customers
func GetCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, total, err := repositories.CustomerRepository{DB: intconfig.DB}.List(c.Query("q"), page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondList(c, list, Paginate(c, total))
}

// GET /api/customers/:id
func GetCustomer(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	cust, err := repositories.CustomerRepository{DB: intconfig.DB}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, cust)
}
