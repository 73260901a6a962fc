package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BusinessMetrics is created without a meter.
var ErrMeterNil = errors.New("meter must not be nil")

// BusinessMetrics tracks customer, order and bulk-ingestion activity.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	customerCreatedTotal *Counter
	orderCreatedTotal    *Counter
	orderAmountTotal     *Counter

	bulkBatchesTotal *Counter
	bulkRecordsTotal *Counter
	bulkBatchSize    *Histogram
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	bm.customerCreatedTotal, err = NewCounter(
		cfg.Meter,
		"crm_customer_created_total",
		"Total number of customers created",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"crm_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"crm_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.bulkBatchesTotal, err = NewCounter(
		cfg.Meter,
		"crm_bulk_ingest_batches_total",
		"Total number of bulk ingestion batches processed",
		"{batches}",
	)
	if err != nil {
		return nil, err
	}

	bm.bulkRecordsTotal, err = NewCounter(
		cfg.Meter,
		"crm_bulk_ingest_records_total",
		"Total number of bulk ingestion records by outcome",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	bm.bulkBatchSize, err = NewHistogram(
		cfg.Meter,
		"crm_bulk_ingest_batch_size",
		"Distribution of bulk ingestion batch sizes",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordCustomerCreated records a customer creation. Source tags where
// the customer came from: "api" or "bulk".
func (bm *BusinessMetrics) RecordCustomerCreated(ctx context.Context, source string) {
	bm.customerCreatedTotal.Inc(ctx, attribute.String("source", source))
}

// RecordOrderCreated records an order creation and its amount
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, amount decimal.Decimal) {
	bm.orderCreatedTotal.Inc(ctx)
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.orderAmountTotal.Add(ctx, cents)
}

// RecordBulkIngest records the outcome of one bulk ingestion batch
func (bm *BusinessMetrics) RecordBulkIngest(ctx context.Context, batchSize, created, rejected int) {
	bm.bulkBatchesTotal.Inc(ctx)
	bm.bulkBatchSize.Record(ctx, float64(batchSize))
	if created > 0 {
		bm.bulkRecordsTotal.Add(ctx, int64(created), attribute.String("outcome", "created"))
	}
	if rejected > 0 {
		bm.bulkRecordsTotal.Add(ctx, int64(rejected), attribute.String("outcome", "rejected"))
	}
}
