package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
)

func newRateLimitedRouter(limitPerMinute float64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(auth.UserIDKey, userID)
		}
	})
	router.POST("/chat", RateLimitMiddleware(limitPerMinute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func post(router *gin.Engine, userID, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.RemoteAddr = remoteAddr
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_RejectsBeyondLimit(t *testing.T) {
	router := newRateLimitedRouter(30)

	for i := 0; i < 30; i++ {
		w := post(router, "user-1", "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := post(router, "user-1", "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limited")
}

func TestRateLimit_KeysByUser(t *testing.T) {
	router := newRateLimitedRouter(1)

	assert.Equal(t, http.StatusOK, post(router, "user-1", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "user-1", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, post(router, "user-2", "10.0.0.1:1234").Code,
		"limits are per user, not shared")
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	router := newRateLimitedRouter(1)

	assert.Equal(t, http.StatusOK, post(router, "", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "", "10.0.0.1:5678").Code,
		"same host shares one bucket")
	assert.Equal(t, http.StatusOK, post(router, "", "10.0.0.2:1234").Code)
}

func TestRateLimit_EvictsIdleBuckets(t *testing.T) {
	limiter := newRateLimiter(30)
	start := time.Now()

	assert.True(t, limiter.allow("user:stale", start))
	assert.True(t, limiter.allow("user:fresh", start))
	assert.Len(t, limiter.buckets, 2)

	later := start.Add(bucketIdleEviction + time.Second)
	assert.True(t, limiter.allow("user:fresh", later))

	assert.Len(t, limiter.buckets, 1, "idle buckets do not accumulate")
	_, ok := limiter.buckets["user:stale"]
	assert.False(t, ok)
}

func TestRateLimit_ActiveBucketsSurviveSweep(t *testing.T) {
	limiter := newRateLimiter(30)
	now := time.Now()

	// Keep both keys active across several sweep intervals.
	for i := 0; i < 5; i++ {
		now = now.Add(bucketSweepInterval + time.Second)
		assert.True(t, limiter.allow("user:a", now))
		assert.True(t, limiter.allow("user:b", now))
	}

	assert.Len(t, limiter.buckets, 2)
}
