package models

import (
	"github.com/opencrm/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Name  string `gorm:"type:varchar(100);not null"`
	Email string `gorm:"type:varchar(254);not null;uniqueIndex:idx_customers_email"`
	Phone string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
