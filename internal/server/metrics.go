package server

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviehub",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"operation", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moviehub",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "status_code"},
	)
)

// MetricsMiddleware records a request counter and latency histogram per
// operation and status.
func MetricsMiddleware() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			operation := "unknown"
			if tr, ok := transport.FromServerContext(ctx); ok {
				operation = tr.Operation()
			}

			start := time.Now()
			reply, err := handler(ctx, req)

			code := 200
			if err != nil {
				code = int(errors.FromError(err).Code)
			} else if sr, ok := reply.(interface{ HTTPStatus() int }); ok {
				code = sr.HTTPStatus()
			}
			status := strconv.Itoa(code)

			httpRequestTotal.WithLabelValues(operation, status).Inc()
			httpRequestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
			return reply, err
		}
	}
}
