package middleware

import (
	"solar-sim/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests by method, route template and status. Unmatched
// routes share one label so arbitrary paths do not create series.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequest(c.Request.Method, route, c.Writer.Status())
	}
}
