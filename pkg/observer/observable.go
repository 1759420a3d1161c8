package observer

import "github.com/google/uuid"

// ID is the identity key of an observable entity.
type ID string

// Observable is implemented by anything that can listen for or announce
// events. Two observables are the same entity when their IDs are equal.
// An observable with an empty ID is not a valid listener or notifier.
type Observable interface {
	ObservableID() ID
}

// Entity is an embeddable Observable with a UUID identity.
//
//	type Cart struct {
//	    observer.Entity
//	    items []Item
//	}
//
//	cart := &Cart{Entity: observer.NewEntity()}
type Entity struct {
	id ID
}

// NewEntity returns an Entity with a fresh UUID identity.
func NewEntity() Entity {
	return Entity{id: ID(uuid.NewString())}
}

// EntityWithID returns an Entity with the given identity.
// Useful when identity comes from elsewhere (database keys, session IDs).
func EntityWithID(id ID) Entity {
	return Entity{id: id}
}

// ObservableID implements Observable. A nil or zero Entity has an empty ID.
func (e *Entity) ObservableID() ID {
	if e == nil {
		return ""
	}
	return e.id
}

// idOf returns the identity of o, or "" when o is absent or invalid.
func idOf(o Observable) ID {
	if o == nil {
		return ""
	}
	return o.ObservableID()
}
