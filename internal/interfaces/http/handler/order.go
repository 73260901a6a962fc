package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/opencrm/backend/internal/application/trade"
	"github.com/opencrm/backend/internal/infrastructure/telemetry"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
	metrics      *telemetry.BusinessMetrics
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// SetMetrics attaches business metrics recording to the handler
func (h *OrderHandler) SetMetrics(metrics *telemetry.BusinessMetrics) {
	h.metrics = metrics
}

// RegisterRoutes registers order routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/cancel", h.Cancel)
}

// Create godoc
// @ID           createOrder
// @Summary      Create a new order
// @Description  Create an order for an existing customer with one or more products
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order creation request"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordOrderCreated(c.Request.Context(), order.TotalAmount)
	}

	h.CreatedWithMessage(c, order, "Order created successfully!")
}

// GetByID godoc
// @ID           getOrderById
// @Summary      Get order by ID
// @Description  Retrieve an order with its lines by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Retrieve a paginated list of orders with optional filtering
// @Tags         orders
// @Produce      json
// @Param        customer_id query string false "Filter by customer ID" format(uuid)
// @Param        status query string false "Filter by status" Enums(pending, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Cancel a pending order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
