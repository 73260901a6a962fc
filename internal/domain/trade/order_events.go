package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencrm/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderCreatedEvent is published when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		TotalAmount:     order.TotalAmount,
		LineCount:       len(order.Lines),
	}
}

// OrderStatusChangedEvent is published when an order's status changes
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
