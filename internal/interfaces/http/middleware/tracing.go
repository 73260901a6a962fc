package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns a middleware that creates a server span per request
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceRequestID tags the active server span with the request ID.
// Must be registered after Tracing and RequestID.
func TraceRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := c.GetString("X-Request-ID"); requestID != "" {
				span.SetAttributes(attribute.String("http.request_id", requestID))
			}
		}
		c.Next()
	}
}
