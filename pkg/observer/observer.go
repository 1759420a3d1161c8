package observer

import "context"

// Observer is an observable entity bound to a registry. Embed *Observer in
// a type to let it listen and announce on its own behalf:
//
//	type Thermostat struct {
//	    *observer.Observer
//	}
//
//	t := &Thermostat{Observer: observer.New(reg)}
//	t.Listen("heater.on", observer.Receive(func(data any) { ... }))
//	t.Notify(ctx, "temperature.changed", 21.5)
type Observer struct {
	id       ID
	registry *Registry
}

var _ Observable = (*Observer)(nil)

// New returns an Observer with a fresh UUID identity.
func New(r *Registry) *Observer {
	e := NewEntity()
	return &Observer{id: e.id, registry: r}
}

// ObservableID implements Observable.
func (o *Observer) ObservableID() ID {
	if o == nil {
		return ""
	}
	return o.id
}

// Registry returns the registry o is bound to.
func (o *Observer) Registry() *Registry {
	return o.registry
}

// Listen subscribes o to event. Pass FromNotifier to only react to one
// announcer.
func (o *Observer) Listen(event string, h Handler, opts ...ListenOption) error {
	return o.registry.Listen(o, event, h, opts...)
}

// ListenOnce subscribes o to the next matching announcement of event.
func (o *Observer) ListenOnce(event string, h Handler, opts ...ListenOption) error {
	return o.registry.ListenOnce(o, event, h, opts...)
}

// StopListening removes o's subscriptions matching f. The zero Filter
// removes all of them.
func (o *Observer) StopListening(f Filter) (int, error) {
	return o.registry.StopListening(o, f)
}

// Notify announces event with o as the notifier.
func (o *Observer) Notify(ctx context.Context, event string, data any) error {
	return o.registry.Notify(ctx, o, event, data)
}
