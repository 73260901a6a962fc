package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTransactionManager implements shared.TransactionManager on top of
// GORM transactions. The transaction handle travels in the context so
// repositories automatically join an open transaction.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction runs fn inside a single transaction. Any error from
// fn rolls the whole transaction back.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transaction from the context if one is
// open, otherwise the fallback handle.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
