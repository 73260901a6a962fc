package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencrm/backend/internal/domain/shared"
)

// OrderStatus represents the order lifecycle state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo reports whether the status may change to the target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusCancelled
	default:
		return false
	}
}

// IsValid reports whether the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLine is a product reference captured at ordering time. The unit
// price is snapshotted from the product so later price changes do not
// rewrite order history.
type OrderLine struct {
	shared.BaseEntity
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
}

// NewOrderLine creates an order line from a product snapshot
func NewOrderLine(productID uuid.UUID, productName string, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID is required")
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Unit price must be greater than zero")
	}
	return &OrderLine{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
	}, nil
}

// Order is the order aggregate root
type Order struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	Lines       []OrderLine
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	Status      OrderStatus
}

// NewOrder creates a new order for the customer. The total amount is
// always recomputed from the lines; whatever the caller thinks the
// total is does not matter.
func NewOrder(customerID uuid.UUID, lines []OrderLine, orderDate time.Time) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("At least one product must be selected.")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Lines:             lines,
		OrderDate:         orderDate,
		Status:            OrderStatusPending,
	}
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	order.recalculateTotal()

	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// Confirm moves the order to the confirmed state
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed in its current state")
	}
	o.Status = OrderStatusConfirmed
	o.touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusPending, OrderStatusConfirmed))
	return nil
}

// Cancel moves the order to the cancelled state
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled in its current state")
	}
	old := o.Status
	o.Status = OrderStatusCancelled
	o.touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, OrderStatusCancelled))
	return nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.UnitPrice)
	}
	o.TotalAmount = total
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
