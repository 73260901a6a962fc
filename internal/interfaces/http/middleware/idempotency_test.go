package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/opencrm/backend/internal/infrastructure/cache"
)

func newIdempotentEngine(t *testing.T) *gin.Engine {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	engine := gin.New()
	engine.POST("/bulk", Idempotency(store, time.Minute, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"processed": true})
	})
	return engine
}

func postWithKey(engine *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bulk", bytes.NewReader([]byte("{}")))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestIdempotency_FirstRequestPasses(t *testing.T) {
	engine := newIdempotentEngine(t)

	w := postWithKey(engine, "batch-2026-01")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdempotency_ReplayRejected(t *testing.T) {
	engine := newIdempotentEngine(t)

	first := postWithKey(engine, "batch-2026-02")
	assert.Equal(t, http.StatusOK, first.Code)

	replay := postWithKey(engine, "batch-2026-02")
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Contains(t, replay.Body.String(), "ERR_CONFLICT")
}

func TestIdempotency_DistinctKeysIndependent(t *testing.T) {
	engine := newIdempotentEngine(t)

	assert.Equal(t, http.StatusOK, postWithKey(engine, "key-a").Code)
	assert.Equal(t, http.StatusOK, postWithKey(engine, "key-b").Code)
}

func TestIdempotency_MissingHeaderPassesThrough(t *testing.T) {
	engine := newIdempotentEngine(t)

	assert.Equal(t, http.StatusOK, postWithKey(engine, "").Code)
	assert.Equal(t, http.StatusOK, postWithKey(engine, "").Code)
}
