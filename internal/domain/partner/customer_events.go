package partner

import (
	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated = "CustomerCreated"
	EventTypeCustomerUpdated = "CustomerUpdated"
	EventTypeCustomerDeleted = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
		Email:           customer.Email,
	}
}

// CustomerUpdatedEvent is published when a customer is updated
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
		Email:           customer.Email,
		Phone:           customer.Phone,
	}
}

// CustomerDeletedEvent is published when a customer is deleted
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(customer *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Email:           customer.Email,
	}
}
