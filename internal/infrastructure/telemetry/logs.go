// Zap -> OpenTelemetry log bridge.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig holds logs bridge configuration.
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
}

// LoggerProvider wraps the OpenTelemetry LoggerProvider with lifecycle management.
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
	config   LogsConfig
}

// NewLoggerProvider creates and configures a new OpenTelemetry LoggerProvider.
// If logs export is disabled, the provider is a no-op.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{
		logger: logger,
		config: cfg,
	}

	if !cfg.Enabled {
		logger.Info("OTEL logs disabled, using no-op logger provider")
		return lp, nil
	}

	exporterOpts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlploggrpc.WithInsecure())
	}

	exporter, err := otlploggrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	global.SetLoggerProvider(lp.provider)

	logger.Info("OpenTelemetry LoggerProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.String("service_name", cfg.ServiceName),
	)

	return lp, nil
}

// Shutdown gracefully shuts down the logger provider, flushing any
// pending logs.
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := lp.provider.Shutdown(shutdownCtx); err != nil {
		lp.logger.Error("Error shutting down logger provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}

// IsEnabled returns whether OTEL logs are enabled.
func (lp *LoggerProvider) IsEnabled() bool {
	return lp.config.Enabled && lp.provider != nil
}

// ZapBridgeConfig holds configuration for the Zap -> OTEL bridge.
type ZapBridgeConfig struct {
	ServiceName    string
	LoggerProvider *LoggerProvider
	Level          zapcore.Level
}

// NewZapOTELCore creates a zapcore.Core that forwards Zap entries to
// OpenTelemetry. Combine it with the stdout core via NewBridgedLogger
// for dual output.
func NewZapOTELCore(cfg ZapBridgeConfig) zapcore.Core {
	if cfg.LoggerProvider == nil || !cfg.LoggerProvider.IsEnabled() {
		return zapcore.NewNopCore()
	}

	core := otelzap.NewCore(cfg.ServiceName,
		otelzap.WithLoggerProvider(cfg.LoggerProvider.provider),
	)

	// otelzap has no minimum level of its own
	if cfg.Level != zapcore.DebugLevel {
		return &levelFilterCore{
			Core:     core,
			minLevel: cfg.Level,
		}
	}

	return core
}

type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{
		Core:     c.Core.With(fields),
		minLevel: c.minLevel,
	}
}

// NewBridgedLogger creates a Zap logger writing to both the original
// core and OpenTelemetry.
func NewBridgedLogger(baseCore, otelCore zapcore.Core, opts ...zap.Option) *zap.Logger {
	return zap.New(zapcore.NewTee(baseCore, otelCore), opts...)
}
