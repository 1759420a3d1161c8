package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordAnnouncement records a completed Notify call.
	RecordAnnouncement(ctx context.Context, event string, delivered int, duration time.Duration)

	// RecordDelivery records one handler invocation and its error status.
	RecordDelivery(ctx context.Context, event string, err error)

	// RecordSubscriptions records a change in the number of live subscriptions.
	RecordSubscriptions(ctx context.Context, delta int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	announcements   metric.Int64Counter
	announceLatency metric.Float64Histogram
	deliveries      metric.Int64Counter
	deliveryErrors  metric.Int64Counter
	subscriptions   metric.Int64UpDownCounter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("observer")

	announcements, err := meter.Int64Counter("observer.announcements",
		metric.WithDescription("Number of Notify calls"),
	)
	if err != nil {
		return nil, err
	}

	announceLatency, err := meter.Float64Histogram("observer.announce.latency_ms",
		metric.WithDescription("Notify fan-out latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	deliveries, err := meter.Int64Counter("observer.deliveries",
		metric.WithDescription("Number of handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	deliveryErrors, err := meter.Int64Counter("observer.delivery_errors",
		metric.WithDescription("Number of handler invocations that failed"),
	)
	if err != nil {
		return nil, err
	}

	subscriptions, err := meter.Int64UpDownCounter("observer.subscriptions",
		metric.WithDescription("Number of live subscriptions"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		announcements:   announcements,
		announceLatency: announceLatency,
		deliveries:      deliveries,
		deliveryErrors:  deliveryErrors,
		subscriptions:   subscriptions,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordAnnouncement records a Notify call.
func (m *otelMetrics) RecordAnnouncement(ctx context.Context, event string, delivered int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("event", event))
	m.announcements.Add(ctx, 1, attrs)
	m.announceLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordDelivery records a handler invocation.
func (m *otelMetrics) RecordDelivery(ctx context.Context, event string, err error) {
	attrs := metric.WithAttributes(attribute.String("event", event))
	m.deliveries.Add(ctx, 1, attrs)
	if err != nil {
		m.deliveryErrors.Add(ctx, 1, attrs)
	}
}

// RecordSubscriptions records a change in live subscriptions.
func (m *otelMetrics) RecordSubscriptions(ctx context.Context, delta int64) {
	if delta == 0 {
		return
	}
	m.subscriptions.Add(ctx, delta)
}
