package journal

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory journal.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	nextSeq int64
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory journal.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (m *MemoryStore) Append(entry Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	m.nextSeq++
	entry.Sequence = m.nextSeq

	// Copy payload to avoid retaining caller's slice
	payload := make([]byte, len(entry.Payload))
	copy(payload, entry.Payload)
	entry.Payload = payload

	m.entries = append(m.entries, entry)
	return entry, nil
}

// List implements Store.
func (m *MemoryStore) List(q Query) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	matched := make([]Entry, 0)
	for _, e := range m.entries {
		if q.Event == "" || e.Event == q.Event {
			matched = append(matched, e)
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[len(matched)-q.Limit:]
	}
	return matched, nil
}

// Stats implements Store.
func (m *MemoryStore) Stats() ([]Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	byEvent := make(map[string]*Stats)
	for _, e := range m.entries {
		s, ok := byEvent[e.Event]
		if !ok {
			s = &Stats{Event: e.Event}
			byEvent[e.Event] = s
		}
		s.Announcements++
		s.Delivered += e.Delivered
		s.Failed += e.Failed
	}

	stats := make([]Stats, 0, len(byEvent))
	for _, s := range byEvent {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Event < stats[j].Event
	})
	return stats, nil
}

// Count implements Store.
func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	return len(m.entries), nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.entries = nil
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}
