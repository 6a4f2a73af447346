package telemetry

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors holds the Prometheus series scraped from /metrics.
type Collectors struct {
	requests   *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewCollectors registers the service collectors with reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)

	return &Collectors{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wp_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "http_status"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wp_rate_limit_rejections_total",
			Help: "Requests rejected by the fixed-window rate limiter",
		}, []string{"scope"}),
	}
}

// RateLimited counts one rejected request for scope.
func (c *Collectors) RateLimited(scope string) {
	c.rejections.WithLabelValues(scope).Inc()
}

// RequestCounter returns Gin middleware counting requests by route template.
// Unmatched routes are recorded as "unmatched" to bound label cardinality.
func RequestCounter(c *Collectors) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		c.requests.WithLabelValues(
			ctx.Request.Method,
			routeOf(ctx),
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()
	}
}
