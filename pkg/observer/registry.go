package observer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/observer/pkg/observer/journal"
	"github.com/randalmurphal/observer/pkg/observer/observability"
)

// subscription is one registered interest.
type subscription struct {
	id       string
	listener Observable
	// listenerID and notifierID are captured at registration; matching
	// never calls back into the observables.
	listenerID ID
	notifierID ID
	event      string
	handler    Handler
	key        any
	once       bool
	// active is false once the subscription has left the registry.
	// Guarded by Registry.mu.
	active bool
}

// Subscription is a read-only view of a registered subscription.
type Subscription struct {
	ID         string
	ListenerID ID
	// NotifierID is empty for unscoped subscriptions.
	NotifierID ID
	Event      string
	Once       bool
}

// Registry is an ordered list of subscriptions shared by every entity that
// uses it. It is safe for concurrent use.
//
// Handlers run synchronously on the goroutine that called Notify, without
// any registry lock held, so they may Listen, StopListening, or Notify
// themselves.
type Registry struct {
	config registryConfig

	mu   sync.Mutex
	subs []*subscription
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// Listen subscribes listener to event. The handler is invoked for every
// announcement of event, or only for those made by the notifier given with
// FromNotifier. Registering an identical (listener, notifier, event,
// handler) tuple again is a no-op.
func (r *Registry) Listen(listener Observable, event string, h Handler, opts ...ListenOption) error {
	return r.listen("listen", listener, event, h, false, opts)
}

// ListenOnce is Listen for a subscription that is removed after its first
// delivery.
func (r *Registry) ListenOnce(listener Observable, event string, h Handler, opts ...ListenOption) error {
	return r.listen("listenOnce", listener, event, h, true, opts)
}

func (r *Registry) listen(op string, listener Observable, event string, h Handler, once bool, opts []ListenOption) error {
	var lc listenConfig
	for _, opt := range opts {
		opt(&lc)
	}

	listenerID, err := requireObservable(op, "listener", listener)
	if err != nil {
		return err
	}
	if event == "" {
		return &InvalidArgumentError{Op: op, Arg: "event", Reason: "event name must be a non-empty string"}
	}
	var notifierID ID
	if lc.notifier != nil {
		if notifierID, err = requireObservable(op, "notifier", lc.notifier); err != nil {
			return err
		}
	}
	if isNilHandler(h) {
		return &InvalidArgumentError{Op: op, Arg: "handler", Reason: "handler is nil"}
	}

	sub := &subscription{
		listener:   listener,
		listenerID: listenerID,
		notifierID: notifierID,
		event:      event,
		handler:    h,
		key:        handlerKey(h),
		once:       once,
		active:     true,
	}

	if !r.add(sub) {
		observability.LogDuplicate(r.config.logger, string(listenerID), event)
		return nil
	}

	r.config.metrics.RecordSubscriptions(context.Background(), 1)
	observability.LogSubscribe(r.config.logger, sub.id, string(listenerID), event, string(notifierID), once)
	return nil
}

// add appends sub unless an identical tuple is already registered.
func (r *Registry) add(sub *subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findDuplicateLocked(sub) {
		return false
	}
	sub.id = uuid.NewString()
	r.subs = append(r.subs, sub)
	return true
}

// findDuplicateLocked reports whether an identical tuple is registered.
// Must be called with r.mu held.
func (r *Registry) findDuplicateLocked(sub *subscription) bool {
	if sub.key == nil {
		return false
	}
	for _, s := range r.subs {
		if s.listenerID == sub.listenerID &&
			s.notifierID == sub.notifierID &&
			s.event == sub.event &&
			s.key == sub.key {
			return true
		}
	}
	return false
}

// StopListening removes listener's subscriptions that match f and returns
// how many were removed. Removing nothing is not an error.
func (r *Registry) StopListening(listener Observable, f Filter) (int, error) {
	const op = "stopListening"

	listenerID, err := requireObservable(op, "listener", listener)
	if err != nil {
		return 0, err
	}
	var notifierID ID
	if f.Notifier != nil {
		if notifierID, err = requireObservable(op, "notifier", f.Notifier); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	kept := r.subs[:0]
	removed := 0
	for _, s := range r.subs {
		if s.listenerID == listenerID &&
			(f.Event == "" || s.event == f.Event) &&
			(notifierID == "" || s.notifierID == notifierID) {
			s.active = false
			removed++
			continue
		}
		kept = append(kept, s)
	}
	clearTail(r.subs, len(kept))
	r.subs = kept
	r.mu.Unlock()

	if removed > 0 {
		r.config.metrics.RecordSubscriptions(context.Background(), -int64(removed))
		observability.LogUnsubscribe(r.config.logger, string(listenerID), f.Event, string(notifierID), removed)
	}
	return removed, nil
}

// Notify announces event on behalf of notifier. Every subscription to event
// that is unscoped or scoped to notifier receives data, in registration
// order. A nil data is delivered as an empty map[string]any.
//
// Subscriptions made while the announcement is in progress are not part of
// it. Subscriptions removed while it is in progress are skipped.
//
// Handler failures do not stop the fan-out unless WithStopOnError is set;
// they are returned joined, each wrapped in a *DeliveryError.
func (r *Registry) Notify(ctx context.Context, notifier Observable, event string, data any) error {
	const op = "notify"

	notifierID, err := requireObservable(op, "notifier", notifier)
	if err != nil {
		return err
	}
	if event == "" {
		return &InvalidArgumentError{Op: op, Arg: "event", Reason: "event name must be a non-empty string"}
	}
	if data == nil {
		data = map[string]any{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	ctx, span := r.config.spans.StartNotifySpan(ctx, event, string(notifierID))
	logger := observability.EnrichLogger(r.config.logger, event, string(notifierID))

	r.mu.Lock()
	targets := make([]*subscription, 0, len(r.subs))
	for _, s := range r.subs {
		if s.event != event {
			continue
		}
		if s.notifierID != "" && s.notifierID != notifierID {
			continue
		}
		targets = append(targets, s)
	}
	r.mu.Unlock()

	var errs []error
	delivered := 0
	for _, s := range targets {
		if !r.claim(s) {
			continue
		}

		herr := invoke(ctx, s, Notification{
			Event:    event,
			Listener: s.listener,
			Notifier: notifier,
			Data:     data,
		})
		delivered++
		r.config.metrics.RecordDelivery(ctx, event, herr)
		r.config.spans.AddSpanEvent(ctx, "observer.delivery",
			attribute.String("listener.id", string(s.listenerID)),
			attribute.String("subscription.id", s.id),
			attribute.Bool("error", herr != nil),
		)

		if herr != nil {
			derr := &DeliveryError{
				Event:          event,
				ListenerID:     s.listenerID,
				SubscriptionID: s.id,
				Err:            herr,
			}
			observability.LogDeliveryError(logger, string(s.listenerID), s.id, herr)
			errs = append(errs, derr)
			if r.config.stopOnError {
				break
			}
		}
	}

	result := errors.Join(errs...)
	elapsed := time.Since(start)

	r.config.metrics.RecordAnnouncement(ctx, event, delivered, elapsed)
	r.config.spans.EndSpanWithError(span, result)
	observability.LogAnnouncement(logger, delivered, len(errs), float64(elapsed.Microseconds())/1000)
	r.record(logger, event, notifierID, data, delivered, len(errs))

	return result
}

// claim reports whether s may be delivered now. A once subscription is
// removed from the registry as it is claimed, so it is delivered at most
// once even when announcements overlap.
func (r *Registry) claim(s *subscription) bool {
	r.mu.Lock()
	if !s.active {
		r.mu.Unlock()
		return false
	}
	if !s.once {
		r.mu.Unlock()
		return true
	}
	s.active = false
	for i, cur := range r.subs {
		if cur == s {
			copy(r.subs[i:], r.subs[i+1:])
			r.subs[len(r.subs)-1] = nil
			r.subs = r.subs[:len(r.subs)-1]
			break
		}
	}
	r.mu.Unlock()

	r.config.metrics.RecordSubscriptions(context.Background(), -1)
	return true
}

// invoke runs the subscription's handler, converting a panic into a
// *PanicError.
func invoke(ctx context.Context, s *subscription, n Notification) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{
				Event:      n.Event,
				ListenerID: s.listenerID,
				Value:      rec,
				Stack:      string(debug.Stack()),
			}
		}
	}()
	return s.handler.Handle(ctx, n)
}

// record appends the announcement to the journal, if one is configured.
func (r *Registry) record(logger *slog.Logger, event string, notifierID ID, data any, delivered, failed int) {
	if r.config.journal == nil {
		return
	}
	entry, err := journal.NewEntry(event, string(notifierID), data, delivered, failed)
	if err != nil {
		observability.LogJournalError(logger, "encode", err)
	}
	if _, err := r.config.journal.Append(entry); err != nil {
		observability.LogJournalError(logger, "append", err)
	}
}

// Subscriptions returns the subscriptions registered by listener, in
// registration order. A nil listener returns every subscription.
func (r *Registry) Subscriptions(listener Observable) []Subscription {
	listenerID := idOf(listener)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Subscription, 0)
	for _, s := range r.subs {
		if listener != nil && s.listenerID != listenerID {
			continue
		}
		out = append(out, Subscription{
			ID:         s.id,
			ListenerID: s.listenerID,
			NotifierID: s.notifierID,
			Event:      s.event,
			Once:       s.once,
		})
	}
	return out
}

// Len returns the number of registered subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Reset removes every subscription.
func (r *Registry) Reset() {
	r.mu.Lock()
	n := len(r.subs)
	for _, s := range r.subs {
		s.active = false
	}
	r.subs = nil
	r.mu.Unlock()

	r.config.metrics.RecordSubscriptions(context.Background(), -int64(n))
}

// requireObservable returns o's identity or an InvalidArgumentError.
func requireObservable(op, arg string, o Observable) (ID, error) {
	if o == nil {
		return "", &InvalidArgumentError{Op: op, Arg: arg, Reason: "observable is nil"}
	}
	id, err := safeID(o)
	if err != nil {
		return "", &InvalidArgumentError{Op: op, Arg: arg, Reason: err.Error()}
	}
	if id == "" {
		return "", &InvalidArgumentError{Op: op, Arg: arg, Reason: "observable has no identity"}
	}
	return id, nil
}

// safeID guards against ObservableID implementations that panic on a nil
// receiver.
func safeID(o Observable) (id ID, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("ObservableID panicked: %v", rec)
		}
	}()
	return o.ObservableID(), nil
}

// clearTail nils out s[from:] so removed subscriptions can be collected.
func clearTail(s []*subscription, from int) {
	for i := from; i < len(s); i++ {
		s[i] = nil
	}
}
