package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/noteroute/noteroute/internal/api/middleware"

// Metrics holds the OpenTelemetry metrics instruments.
type Metrics struct {
	requestDuration  metric.Float64Histogram
	requestTotal     metric.Int64Counter
	requestsInFlight metric.Int64UpDownCounter
	responseSize     metric.Int64Histogram
}

// NewMetrics creates a new Metrics instance with initialized instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestsInFlight, err := meter.Int64UpDownCounter(
		"http.server.requests_in_flight",
		metric.WithDescription("Number of HTTP requests currently being processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	responseSize, err := meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("Size of HTTP server responses in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		requestsInFlight: requestsInFlight,
		responseSize:     responseSize,
	}, nil
}

// Middleware returns an HTTP middleware that records metrics for each request.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
			}
			m.requestsInFlight.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			defer m.requestsInFlight.Add(r.Context(), -1, metric.WithAttributes(attrs...))

			wrapped := newMetricsResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()

			attrs = append(attrs, attribute.String("http.status_code", strconv.Itoa(wrapped.statusCode)))
			if wrapped.statusCode >= 400 {
				attrs = append(attrs, attribute.Bool("error", true))
			}

			m.requestDuration.Record(r.Context(), duration, metric.WithAttributes(attrs...))
			m.requestTotal.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			m.responseSize.Record(r.Context(), wrapped.written, metric.WithAttributes(attrs...))
		})
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture response metadata.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// ParseMetrics holds metrics for note-parse operations.
type ParseMetrics struct {
	parseDuration metric.Float64Histogram
	parseTotal    metric.Int64Counter
	placesFound   metric.Int64Histogram
}

// NewParseMetrics creates metrics for monitoring note extraction.
func NewParseMetrics() (*ParseMetrics, error) {
	meter := otel.Meter(meterName)

	parseDuration, err := meter.Float64Histogram(
		"parse.note.duration",
		metric.WithDescription("Duration of note parse operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	parseTotal, err := meter.Int64Counter(
		"parse.note.total",
		metric.WithDescription("Total number of note parse operations"),
		metric.WithUnit("{parse}"),
	)
	if err != nil {
		return nil, err
	}

	placesFound, err := meter.Int64Histogram(
		"parse.note.places",
		metric.WithDescription("Number of places extracted per parsed note"),
		metric.WithUnit("{place}"),
	)
	if err != nil {
		return nil, err
	}

	return &ParseMetrics{
		parseDuration: parseDuration,
		parseTotal:    parseTotal,
		placesFound:   placesFound,
	}, nil
}

// RecordParse records the outcome of one parse operation.
func (m *ParseMetrics) RecordParse(strategy string, duration time.Duration, places int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("parse.strategy", strategy),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Use a background context so canceled requests still record
	ctx := context.TODO()
	m.parseDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.parseTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err == nil {
		m.placesFound.Record(ctx, int64(places), metric.WithAttributes(attrs...))
	}
}
