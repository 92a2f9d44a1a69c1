package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics is satisfied by metrics.Recorder.
type HTTPMetrics interface {
	HTTPRequest(method, route string, status int, duration time.Duration)
}

// Metrics records one observation per request, labelled by the matched route template.
func Metrics(m HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
