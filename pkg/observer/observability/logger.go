// Package observability provides logging, metrics, and tracing for the
// observer registry.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds announcement context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "order.created", notifierID)
//	enriched.Info("fanning out") // includes event, notifier_id
func EnrichLogger(logger *slog.Logger, event, notifierID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event", event),
		slog.String("notifier_id", notifierID),
	)
}

// LogSubscribe logs a new subscription.
func LogSubscribe(logger *slog.Logger, subscriptionID, listenerID, event, notifierID string, once bool) {
	if logger == nil {
		return
	}
	logger.Debug("subscription added",
		slog.String("subscription_id", subscriptionID),
		slog.String("listener_id", listenerID),
		slog.String("event", event),
		slog.String("notifier_id", notifierID),
		slog.Bool("once", once),
	)
}

// LogDuplicate logs a subscription that was suppressed as a duplicate.
func LogDuplicate(logger *slog.Logger, listenerID, event string) {
	if logger == nil {
		return
	}
	logger.Debug("duplicate subscription ignored",
		slog.String("listener_id", listenerID),
		slog.String("event", event),
	)
}

// LogUnsubscribe logs removal of a listener's subscriptions.
func LogUnsubscribe(logger *slog.Logger, listenerID, event, notifierID string, removed int) {
	if logger == nil {
		return
	}
	logger.Debug("subscriptions removed",
		slog.String("listener_id", listenerID),
		slog.String("event", event),
		slog.String("notifier_id", notifierID),
		slog.Int("removed", removed),
	)
}

// LogAnnouncement logs a completed announcement. logger is expected to come
// from EnrichLogger.
func LogAnnouncement(logger *slog.Logger, delivered, failed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event announced",
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDeliveryError logs a handler failure on an EnrichLogger logger.
func LogDeliveryError(logger *slog.Logger, listenerID, subscriptionID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("delivery failed",
		slog.String("listener_id", listenerID),
		slog.String("subscription_id", subscriptionID),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a journal failure (non-fatal) on an EnrichLogger
// logger.
func LogJournalError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
