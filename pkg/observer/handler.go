package observer

import (
	"context"
	"reflect"
	"unsafe"
)

// Notification is what a handler receives for one delivery.
type Notification struct {
	// Event is the announced event name.
	Event string

	// Listener is the entity that registered the subscription. Handlers
	// act on behalf of this entity.
	Listener Observable

	// Notifier is the entity that announced the event.
	Notifier Observable

	// Data is the announcement payload. Never nil.
	Data any
}

// Handler reacts to a delivered notification.
type Handler interface {
	Handle(ctx context.Context, n Notification) error
}

// HandlerFunc adapts a function to the Handler interface.
//
// For duplicate suppression, HandlerFunc values are compared by closure
// identity: each closure that captures variables is its own handler, while
// a function literal that captures nothing is the same handler every time
// it is evaluated. Use Func when such a literal must be registered twice.
type HandlerFunc func(ctx context.Context, n Notification) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// FuncHandler is a Handler with pointer identity. See Func.
type FuncHandler struct {
	fn func(ctx context.Context, n Notification) error
}

// Func wraps fn in a handler whose identity is the returned pointer.
// Every call to Func yields a distinct handler.
func Func(fn func(ctx context.Context, n Notification) error) *FuncHandler {
	return &FuncHandler{fn: fn}
}

// Handle implements Handler.
func (h *FuncHandler) Handle(ctx context.Context, n Notification) error {
	return h.fn(ctx, n)
}

// Receive adapts a payload-only callback that cannot fail.
//
//	reg.Listen(a, "test", observer.Receive(func(data any) { got = data }))
func Receive(fn func(data any)) *FuncHandler {
	return Func(func(_ context.Context, n Notification) error {
		fn(n.Data)
		return nil
	})
}

// handlerKey returns the identity used to detect duplicate subscriptions.
// Returns nil for handlers that have no usable identity; those are never
// treated as duplicates.
func handlerKey(h Handler) any {
	v := reflect.ValueOf(h)
	if v.Kind() == reflect.Func {
		return funcKey{typ: v.Type(), ptr: closurePointer(v)}
	}
	// Value.Comparable inspects dynamic values, so a struct whose interface
	// field holds a slice is rejected here instead of panicking on ==.
	if v.Comparable() {
		return h
	}
	return nil
}

type funcKey struct {
	typ reflect.Type
	ptr unsafe.Pointer
}

// closurePointer returns the address of the closure object behind a func
// value. reflect.Value.Pointer returns the code pointer instead, which every
// closure of one literal shares.
func closurePointer(v reflect.Value) unsafe.Pointer {
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return *(*unsafe.Pointer)(p.UnsafePointer())
}

// isNilHandler reports whether h is nil or a typed nil (nil func, nil pointer).
func isNilHandler(h Handler) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Interface, reflect.Chan, reflect.Slice:
		return v.IsNil()
	}
	return false
}
