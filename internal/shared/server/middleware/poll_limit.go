package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"bizaudit-backend/internal/shared/server/respond"
)

// PollLimiter enforces a minimum interval between requests for the same key.
// It protects the report polling endpoint from tight client loops without
// touching the shared submission rate limiter.
type PollLimiter struct {
	mu          sync.Mutex
	lastHit     map[string]time.Time
	minInterval time.Duration
	now         func() time.Time
}

// NewPollLimiter creates a limiter with the given minimum interval. A zero
// or negative interval disables limiting.
func NewPollLimiter(minInterval time.Duration) *PollLimiter {
	return &PollLimiter{
		lastHit:     make(map[string]time.Time),
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Allow reports whether a request for key may proceed and records the hit.
func (l *PollLimiter) Allow(key string) bool {
	if l == nil || l.minInterval <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if last, ok := l.lastHit[key]; ok && now.Sub(last) < l.minInterval {
		return false
	}
	l.lastHit[key] = now
	return true
}

// PollLimit applies the limiter per client IP and route parameter id.
func PollLimit(l *PollLimiter, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.Param(param)
		if !l.Allow(key) {
			c.Header("Retry-After", "1")
			respond.Error(c, http.StatusTooManyRequests, "poll_too_fast", "Polling too frequently", nil)
			return
		}
		c.Next()
	}
}
