package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/opencrm/backend/internal/infrastructure/telemetry"
)

// httpMetrics holds the HTTP-level metric instruments
type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"http_server_requests_total",
		"Total number of HTTP requests",
		"{request}")
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter,
		"http_server_request_duration_seconds",
		"HTTP request duration",
		"s")
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics returns a middleware that records request count, duration and
// in-flight gauge per route. A nil or disabled meter provider yields a no-op.
func HTTPMetrics(mp *telemetry.MeterProvider) gin.HandlerFunc {
	if mp == nil || !mp.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}

	m, err := newHTTPMetrics(mp.Meter("http.server"))
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		// FullPath keeps cardinality bounded; raw URLs would explode it
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		baseAttrs := []attribute.KeyValue{
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
		}

		m.activeRequests.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
		c.Next()
		m.activeRequests.Add(ctx, -1, metric.WithAttributes(baseAttrs...))

		attrs := append(baseAttrs,
			attribute.String("http.status_code", strconv.Itoa(c.Writer.Status())))
		m.requestTotal.Inc(ctx, attrs...)
		m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs...)
	}
}
