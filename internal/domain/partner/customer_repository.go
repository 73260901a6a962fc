package partner

import (
	"context"

	"github.com/opencrm/backend/internal/domain/shared"
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	shared.Repository[Customer]

	// FindByEmail finds a customer by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// ExistsByEmail checks whether a customer with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindExistingEmails returns the subset of the given emails that
	// already belong to stored customers. Emails are matched after
	// normalization.
	FindExistingEmails(ctx context.Context, emails []string) ([]string, error)
}
