package handler

import (
	"github.com/gin-gonic/gin"

	ingestapp "github.com/opencrm/backend/internal/application/ingest"
	"github.com/opencrm/backend/internal/infrastructure/telemetry"
)

// BulkCustomerHandler handles bulk customer ingestion endpoints
type BulkCustomerHandler struct {
	BaseHandler
	bulkService *ingestapp.BulkCustomerService
	metrics     *telemetry.BusinessMetrics
	middlewares []gin.HandlerFunc
}

// NewBulkCustomerHandler creates a new BulkCustomerHandler. Any supplied
// middleware (idempotency checks and the like) is applied to the bulk route.
func NewBulkCustomerHandler(bulkService *ingestapp.BulkCustomerService, middlewares ...gin.HandlerFunc) *BulkCustomerHandler {
	return &BulkCustomerHandler{
		bulkService: bulkService,
		middlewares: middlewares,
	}
}

// SetMetrics attaches business metrics recording to the handler
func (h *BulkCustomerHandler) SetMetrics(metrics *telemetry.BusinessMetrics) {
	h.metrics = metrics
}

// RegisterRoutes registers the bulk ingestion route on the given group
func (h *BulkCustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	handlers := append([]gin.HandlerFunc{}, h.middlewares...)
	handlers = append(handlers, h.Ingest)
	rg.POST("/customers/bulk", handlers...)
}

// Ingest godoc
// @ID           bulkCreateCustomers
// @Summary      Create customers in bulk
// @Description  Create a batch of customers in one transaction. Invalid or duplicate candidates are reported per record without failing the rest of the batch; a store failure reverts the whole batch.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client-chosen key for replay detection"
// @Param        request body ingestapp.BulkCustomerRequest true "Bulk customer request"
// @Success      200 {object} APIResponse[ingestapp.BulkIngestResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers/bulk [post]
func (h *BulkCustomerHandler) Ingest(c *gin.Context) {
	var req ingestapp.BulkCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.bulkService.Ingest(c.Request.Context(), req.Customers)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordBulkIngest(c.Request.Context(),
			len(req.Customers), len(result.Successes), result.TotalErrors)
	}

	h.Success(c, result)
}
