package middlewares

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
)

// Buckets untouched this long are dropped; an idle bucket refills to full well
// before then, so eviction never costs a caller tokens.
const bucketIdleEviction = 10 * time.Minute

// How often the bucket map is swept for idle entries.
const bucketSweepInterval = time.Minute

// simple token bucket per key (authenticated user or IP).
type rateBucket struct {
	tokens     float64
	lastRefill time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	limit     float64
	rate      float64
	lastSweep time.Time
}

func newRateLimiter(limitPerMinute float64) *rateLimiter {
	return &rateLimiter{
		buckets:   make(map[string]*rateBucket),
		limit:     limitPerMinute,
		rate:      limitPerMinute / 60.0,
		lastSweep: time.Now(),
	}
}

func (l *rateLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= bucketSweepInterval {
		for k, b := range l.buckets {
			if now.Sub(b.lastRefill) >= bucketIdleEviction {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: l.limit, lastRefill: now}
		l.buckets[key] = bucket
	}

	elapsed := now.Sub(bucket.lastRefill).Seconds()
	bucket.tokens = min(l.limit, bucket.tokens+elapsed*l.rate)
	bucket.lastRefill = now

	if bucket.tokens < 1 {
		return false
	}
	bucket.tokens -= 1
	return true
}

// RateLimitMiddleware limits requests per key within a fixed window. Turns
// rejected here never reach the orchestrator.
func RateLimitMiddleware(limitPerMinute float64) gin.HandlerFunc {
	limiter := newRateLimiter(limitPerMinute)

	return func(c *gin.Context) {
		if !limiter.allow(rateKey(c), time.Now()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	if userID := auth.UserID(c); userID != "" {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return "ip:" + c.Request.RemoteAddr
	}
	return "ip:" + host
}
