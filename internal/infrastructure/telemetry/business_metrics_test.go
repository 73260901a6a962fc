package telemetry_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/opencrm/backend/internal/infrastructure/telemetry"
)

func TestNewBusinessMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, bm)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestBusinessMetrics_RecordCustomerCreated(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordCustomerCreated(ctx, "api")
	bm.RecordCustomerCreated(ctx, "bulk")
}

func TestBusinessMetrics_RecordOrderCreated(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordOrderCreated(ctx, decimal.NewFromFloat(99.95))
	bm.RecordOrderCreated(ctx, decimal.Zero)
}

func TestBusinessMetrics_RecordBulkIngest(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordBulkIngest(ctx, 10, 7, 3)
	bm.RecordBulkIngest(ctx, 0, 0, 0)
}
