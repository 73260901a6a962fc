package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	AggregateModel
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	OrderDate   time.Time        `gorm:"not null;index"`
	Status      string           `gorm:"type:varchar(20);not null;default:'pending'"`
	Lines       []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the persistence model for a single order line.
type OrderLineModel struct {
	BaseModel
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *trade.Order {
	lines := make([]trade.OrderLine, len(m.Lines))
	for i, lm := range m.Lines {
		lines[i] = trade.OrderLine{
			BaseEntity:  lm.BaseModel.ToDomain(),
			OrderID:     lm.OrderID,
			ProductID:   lm.ProductID,
			ProductName: lm.ProductName,
			UnitPrice:   lm.UnitPrice,
		}
	}
	return &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Lines:             lines,
		TotalAmount:       m.TotalAmount,
		OrderDate:         m.OrderDate,
		Status:            trade.OrderStatus(m.Status),
	}
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.CustomerID = o.CustomerID
	m.TotalAmount = o.TotalAmount
	m.OrderDate = o.OrderDate
	m.Status = string(o.Status)
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		lm := OrderLineModel{
			OrderID:     line.OrderID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
		}
		lm.FromDomainBaseEntity(shared.BaseEntity{
			ID:        line.ID,
			CreatedAt: line.CreatedAt,
			UpdatedAt: line.UpdatedAt,
		})
		m.Lines[i] = lm
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
