package telemetry

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/wisdom-pocket/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/wisdom-pocket/internal/platform/telemetry"

// HeaderTraceID carries the active trace ID back to the client.
const HeaderTraceID = "X-Trace-ID"

// unmatchedRoute labels requests that hit no route, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

type httpInstruments struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var (
		in  httpInstruments
		err error
	)

	in.duration, err = meter.Float64Histogram("wp.http.server.duration",
		metric.WithDescription("Time spent serving a request"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	in.requests, err = meter.Int64Counter("wp.http.server.requests",
		metric.WithDescription("Requests served"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	in.inFlight, err = meter.Int64UpDownCounter("wp.http.server.in_flight",
		metric.WithDescription("Requests currently being served"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating in-flight counter: %w", err)
	}

	return &in, nil
}

// Middleware records request metrics on the global meter and exposes the trace ID.
// Mount it after TracingMiddleware so the span exists.
func Middleware() gin.HandlerFunc {
	return MiddlewareWithMeter(otel.Meter(instrumentationName))
}

// MiddlewareWithMeter is Middleware with an explicit meter.
// Instrument errors are reported to otel.Handle and only disable the metrics.
func MiddlewareWithMeter(meter metric.Meter) gin.HandlerFunc {
	in, err := newHTTPInstruments(meter)
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)

			ctx = logging.WithTraceID(ctx, traceID)
			c.Request = c.Request.WithContext(ctx)
		}

		if in == nil {
			c.Next()
			return
		}

		method := attribute.String("http.request.method", c.Request.Method)
		route := attribute.String("http.route", routeOf(c))
		start := time.Now()

		in.inFlight.Add(ctx, 1, metric.WithAttributes(method, route))
		c.Next()
		in.inFlight.Add(ctx, -1, metric.WithAttributes(method, route))

		attrs := metric.WithAttributes(method, route,
			attribute.Int("http.response.status_code", c.Writer.Status()))
		in.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		in.requests.Add(ctx, 1, attrs)
	}
}

// TracingMiddleware starts a server span per request.
func TracingMiddleware(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, opts...)
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}
