package observer

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a caller-correctable usage error.
type InvalidArgumentError struct {
	// Op is the registry operation that rejected the call.
	Op string
	// Arg names the offending argument: "event", "notifier", "listener", or "handler".
	Arg string
	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Arg, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// DeliveryError reports a handler that failed during an announcement.
type DeliveryError struct {
	Event          string
	ListenerID     ID
	SubscriptionID string
	Err            error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %q to listener %s: %v", e.Event, e.ListenerID, e.Err)
}

// Unwrap returns the handler error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// PanicError captures a handler panic.
type PanicError struct {
	// Event is the announcement the handler was serving.
	Event string
	// ListenerID identifies the listener whose handler panicked.
	ListenerID ID
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler for %q on listener %s panicked: %v", e.Event, e.ListenerID, e.Value)
}
