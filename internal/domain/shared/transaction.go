package shared

import "context"

// TransactionManager runs a function inside a single persistence
// transaction. Repositories participating in the transaction pick it up
// from the context passed to fn. If fn returns an error the whole
// transaction is rolled back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
