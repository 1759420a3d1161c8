// Package journal records announcements made through an observer registry.
//
// The journal only ever sees announcements. Subscription state is not
// persisted; reopening a journal restores history, not listeners.
package journal

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry describes one announcement.
type Entry struct {
	// Sequence is assigned by the store, starting at 1.
	Sequence   int64           `json:"sequence"`
	Event      string          `json:"event"`
	NotifierID string          `json:"notifier_id"`
	Payload    json.RawMessage `json:"payload"`
	Delivered  int             `json:"delivered"`
	Failed     int             `json:"failed"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewEntry builds an entry, JSON-encoding the payload.
// Payloads that cannot be encoded are recorded as null along with the
// encoding error, so the caller can report it without losing the entry.
func NewEntry(event, notifierID string, payload any, delivered, failed int) (Entry, error) {
	entry := Entry{
		Event:      event,
		NotifierID: notifierID,
		Payload:    json.RawMessage("null"),
		Delivered:  delivered,
		Failed:     failed,
		Timestamp:  time.Now().UTC(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return entry, err
	}
	entry.Payload = data
	return entry, nil
}

// Query filters List results.
type Query struct {
	// Event restricts results to one event name. Empty means all events.
	Event string

	// Limit caps the number of entries returned, newest last.
	// Zero means no limit.
	Limit int
}

// Stats summarizes the journal for one event name.
type Stats struct {
	Event         string
	Announcements int
	Delivered     int
	Failed        int
}

// Store persists announcement entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores an entry and returns it with its sequence number set.
	Append(entry Entry) (Entry, error)

	// List returns entries ordered by sequence.
	// Returns an empty slice (not error) when nothing matches.
	List(q Query) ([]Entry, error)

	// Stats returns per-event totals ordered by event name.
	Stats() ([]Stats, error)

	// Count returns the number of stored entries.
	Count() (int, error)

	// Clear removes all entries.
	Clear() error

	// Close releases any resources (connections, files).
	Close() error
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("journal store closed")
