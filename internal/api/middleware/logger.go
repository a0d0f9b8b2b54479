package middleware

import (
	"time"

	"solar-sim/internal/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Logger attaches a request-scoped logger to the request context and logs
// one line per request once it completes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		ctx := c.Request.Context()
		l := log.Ctx(ctx).With("request_id", id)
		c.Request = c.Request.WithContext(log.With(ctx, l))

		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		l.InfoContext(c.Request.Context(), "http request", attrs...)
	}
}
