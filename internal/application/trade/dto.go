package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencrm/backend/internal/domain/trade"
)

// CreateOrderRequest represents a request to create a new order
type CreateOrderRequest struct {
	CustomerID uuid.UUID   `json:"customer_id" binding:"required"`
	ProductIDs []uuid.UUID `json:"product_ids"`
	OrderDate  *time.Time  `json:"order_date"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	Lines       []OrderLineResponse `json:"lines"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	OrderDate   time.Time           `json:"order_date"`
	Status      string              `json:"status"`
	Version     int                 `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
		}
	}
	return OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Lines:       lines,
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
		Status:      string(o.Status),
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
