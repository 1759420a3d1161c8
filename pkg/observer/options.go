package observer

import (
	"log/slog"

	"github.com/randalmurphal/observer/pkg/observer/journal"
	"github.com/randalmurphal/observer/pkg/observer/observability"
)

// registryConfig holds registry-wide behavior.
type registryConfig struct {
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
	journal     journal.Store
	stopOnError bool
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Registry.
type Option func(*registryConfig)

// WithLogger enables structured logging of subscription changes and
// announcements. Most records are logged at Debug; handler failures at Error.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	reg := observer.NewRegistry(observer.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *registryConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics.
// Default: disabled
//
// Metrics are recorded through the global OTel meter provider:
//   - observer.announcements (counter)
//   - observer.announce.latency_ms (histogram)
//   - observer.deliveries (counter)
//   - observer.delivery_errors (counter)
//   - observer.subscriptions (up-down counter)
func WithMetrics(enabled bool) Option {
	return func(c *registryConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables an OpenTelemetry span per announcement.
// Default: disabled
func WithTracing(enabled bool) Option {
	return func(c *registryConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithJournal records every announcement in store.
// Journal failures are logged and never fail Notify.
// The registry does not close the store.
func WithJournal(store journal.Store) Option {
	return func(c *registryConfig) {
		c.journal = store
	}
}

// WithStopOnError makes Notify stop at the first failing handler and
// return its error, skipping the remaining subscribers.
// Default: every subscriber is invoked and failures are returned joined.
func WithStopOnError() Option {
	return func(c *registryConfig) {
		c.stopOnError = true
	}
}

// listenConfig holds per-subscription options.
type listenConfig struct {
	notifier Observable
}

// ListenOption configures a subscription.
type ListenOption func(*listenConfig)

// FromNotifier scopes a subscription to announcements made by n.
func FromNotifier(n Observable) ListenOption {
	return func(c *listenConfig) {
		c.notifier = n
	}
}

// Filter selects subscriptions for StopListening. Zero fields match
// anything: an empty Event matches every event, a nil Notifier matches
// every notifier (including unscoped subscriptions).
type Filter struct {
	Event    string
	Notifier Observable
}
