package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencrm/backend/internal/interfaces/http/dto"
)

// RateLimiter implements a simple in-memory rate limiter using a
// fixed-window token bucket per client
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	limit       int
	window      time.Duration
	cleanupTick time.Duration
	stopChan    chan struct{}
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter and starts a background
// goroutine that drops idle clients
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*client),
		limit:       limit,
		window:      window,
		cleanupTick: window * 2,
		stopChan:    make(chan struct{}),
	}

	rl.wg.Add(1)
	go rl.cleanupLoop()

	return rl
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Close() error {
	rl.closeOnce.Do(func() {
		close(rl.stopChan)
		rl.wg.Wait()
	})
	return nil
}

func (rl *RateLimiter) cleanupLoop() {
	defer rl.wg.Done()

	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup removes clients whose window expired long enough ago
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, c := range rl.clients {
		if now.Sub(c.lastReset) > rl.window*2 {
			delete(rl.clients, key)
		}
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]

	if !exists {
		rl.clients[key] = &client{
			tokens:    rl.limit - 1,
			lastReset: now,
		}
		return true
	}

	if now.Sub(c.lastReset) >= rl.window {
		c.tokens = rl.limit - 1
		c.lastReset = now
		return true
	}

	if c.tokens > 0 {
		c.tokens--
		return true
	}

	return false
}

// Remaining returns the number of remaining requests for the given key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists {
		return rl.limit
	}

	if time.Since(c.lastReset) >= rl.window {
		return rl.limit
	}

	return c.tokens
}

// RateLimit returns a rate limiting middleware keyed by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests. Please try again later."))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}
