package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/opencrm/backend/internal/domain/shared"
)

const (
	// MaxNameLength is the maximum customer name length
	MaxNameLength = 100
	// MaxEmailLength is the maximum email length per RFC 5321
	MaxEmailLength = 254
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Phone is accepted either as international digits (optionally
	// prefixed with "+") or in dashed 3-3-4 form.
	phoneIntlRegex   = regexp.MustCompile(`^\+?\d{7,15}$`)
	phoneDashedRegex = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// Customer is the customer aggregate root
type Customer struct {
	shared.BaseAggregateRoot
	Name  string
	Email string
	Phone string
}

// NewCustomer creates a new customer aggregate.
// The email is normalized to lower case so uniqueness checks are
// case-insensitive.
func NewCustomer(name, email, phone string) (*Customer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             email,
		Phone:             strings.TrimSpace(phone),
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))
	return customer, nil
}

// UpdateName changes the customer name
func (c *Customer) UpdateName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.touch()
	c.AddDomainEvent(NewCustomerUpdatedEvent(c))
	return nil
}

// UpdatePhone changes the customer phone number
func (c *Customer) UpdatePhone(phone string) error {
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	c.Phone = strings.TrimSpace(phone)
	c.touch()
	c.AddDomainEvent(NewCustomerUpdatedEvent(c))
	return nil
}

// ChangeEmail changes the customer email. Uniqueness against the store
// is the caller's responsibility; the aggregate only enforces format.
func (c *Customer) ChangeEmail(email string) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	c.Email = email
	c.touch()
	c.AddDomainEvent(NewCustomerUpdatedEvent(c))
	return nil
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Customer name is required")
	}
	if len(name) > MaxNameLength {
		return shared.NewValidationError("Customer name must not exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Customer email is required")
	}
	if len(email) > MaxEmailLength {
		return shared.NewValidationError("Customer email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

// ValidatePhone validates an optional phone number. An empty phone is
// allowed; a present one must match one of the accepted formats.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if !phoneIntlRegex.MatchString(phone) && !phoneDashedRegex.MatchString(phone) {
		return shared.NewValidationError("Invalid phone number format")
	}
	return nil
}
