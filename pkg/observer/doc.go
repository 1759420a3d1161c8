// Package observer provides a synchronous, in-process publish/subscribe
// registry.
//
// # Overview
//
// Entities register interest in named events and are invoked when those
// events are announced. A subscription may be scoped to one announcing
// entity, in which case announcements by anyone else are ignored.
//
//	reg := observer.NewRegistry()
//
//	a := observer.New(reg)
//	b := observer.New(reg)
//
//	a.Listen("test", observer.Receive(func(data any) {
//	    fmt.Println("got", data)
//	}))
//	b.Notify(ctx, "test", 2) // got 2
//
// # Identity
//
// Anything implementing Observable can listen and announce. Entities are
// compared by ObservableID, never structurally. Embed Entity (plain
// identity) or *Observer (identity bound to a registry) to make a type
// observable.
//
// # Subscriptions
//
// The registry is one ordered list. Announcements deliver in registration
// order. Registering the same (listener, notifier, event, handler) tuple
// twice keeps a single subscription. ListenOnce subscriptions are removed
// when they are delivered.
//
// StopListening removes a listener's subscriptions selected by a Filter:
//
//	reg.StopListening(a, observer.Filter{})                           // everything
//	reg.StopListening(a, observer.Filter{Event: "test"})              // one event
//	reg.StopListening(a, observer.Filter{Notifier: c})                // one notifier
//	reg.StopListening(a, observer.Filter{Event: "test", Notifier: c}) // both
//
// # Delivery
//
// Notify runs every matching handler on the calling goroutine before it
// returns. The set of subscriptions is fixed when Notify starts; a
// subscription removed by an earlier handler in the same announcement is
// skipped. Handlers may call back into the registry.
//
// By default a failing or panicking handler does not prevent delivery to
// the others; all failures are returned together. WithStopOnError stops the
// announcement at the first failure instead.
//
// # Errors
//
// Usage errors match ErrInvalidArgument:
//
//	if errors.Is(err, observer.ErrInvalidArgument) { ... }
//
// Handler failures are *DeliveryError values; panics are recovered into
// *PanicError.
//
// # Observability
//
// WithLogger, WithMetrics, and WithTracing enable slog logging and
// OpenTelemetry metrics and spans. WithJournal records every announcement in
// a journal.Store.
package observer
