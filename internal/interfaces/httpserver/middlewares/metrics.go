package middlewares

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/metrics"
)

// MetricsMiddleware counts requests per route template and status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
