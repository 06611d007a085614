package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterEntry pairs a limiter with its last use so idle entries can
// be evicted.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter stores a rate limiter per client IP.
type IPRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	r       rate.Limit
	b       int
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		entries: make(map[string]*limiterEntry),
		r:       r,
		b:       b,
	}
}

// Allow reports whether the given IP may proceed.
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	e, exists := i.entries[ip]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.entries[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

// evictIdle drops limiters not seen since the cutoff.
func (i *IPRateLimiter) evictIdle(cutoff time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for ip, e := range i.entries {
		if e.lastSeen.Before(cutoff) {
			delete(i.entries, ip)
		}
	}
}

// RateLimiter is a middleware for IP-based rate limiting. Idle client
// entries are evicted periodically so the map does not grow without
// bound.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(r, b)

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.evictIdle(time.Now().Add(-30 * time.Minute))
		}
	}()

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
