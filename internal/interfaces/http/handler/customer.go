package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/opencrm/backend/internal/application/partner"
	"github.com/opencrm/backend/internal/infrastructure/telemetry"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	metrics         *telemetry.BusinessMetrics
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// SetMetrics attaches business metrics recording to the handler
func (h *CustomerHandler) SetMetrics(metrics *telemetry.BusinessMetrics) {
	h.metrics = metrics
}

// RegisterRoutes registers customer routes on the given group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/:id", h.GetByID)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Description  Create a new customer with a unique email
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCustomerCreated(c.Request.Context(), "api")
	}

	h.CreatedWithMessage(c, customer, "Customer created successfully")
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Description  Retrieve a customer by its ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Retrieve a paginated list of customers with optional search
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search term (name, email)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  Update an existing customer's details
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.UpdateCustomerRequest true "Customer update request"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Delete a customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), customerID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
