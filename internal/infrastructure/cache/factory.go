package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/infrastructure/config"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore creates an idempotency store. When Redis is enabled it is
// tried first; an unreachable Redis falls back to in-memory unless the
// fallback is disabled.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis idempotency store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Replayed bulk requests may slip through in distributed deployments.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
