package api

import (
	"net/http"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer CRUD requests
type CustomerHandler struct {
	service *service.CustomerService
	logger  *logger.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(service *service.CustomerService, logger *logger.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, logger: logger}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Error creating customer", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		switch err {
		case service.ErrCustomerNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		default:
			h.logger.Error("Error getting customer", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customer"})
		}
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.logger.Error("Error listing customers", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case service.ErrCustomerNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		default:
			h.logger.Error("Error updating customer", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		}
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		switch err {
		case service.ErrCustomerNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		default:
			h.logger.Error("Error deleting customer", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
