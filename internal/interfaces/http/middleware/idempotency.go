package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/interfaces/http/dto"
)

// IdempotencyHeader is the request header carrying the client-chosen key
const IdempotencyHeader = "Idempotency-Key"

// Idempotency returns a middleware that rejects replayed requests carrying
// the same Idempotency-Key within the TTL. Requests without the header pass
// through untouched. The store is consulted best-effort: a store failure is
// logged and the request proceeds rather than blocking writes.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		firstSeen, err := store.MarkProcessed(c.Request.Context(), key, ttl)
		if err != nil {
			logger.Warn("idempotency store unavailable, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !firstSeen {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse(dto.ErrCodeConflict,
					"A request with this idempotency key was already processed"))
			return
		}

		c.Next()
	}
}
