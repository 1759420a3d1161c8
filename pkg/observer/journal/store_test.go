package journal_test

import (
	"encoding/json"
	"testing"

	"github.com/randalmurphal/observer/pkg/observer/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) journal.Store

func mustEntry(t *testing.T, event string, payload any, delivered, failed int) journal.Entry {
	t.Helper()
	e, err := journal.NewEntry(event, "notifier-1", payload, delivered, failed)
	require.NoError(t, err)
	return e
}

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Append_and_List", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		first, err := store.Append(mustEntry(t, "a", map[string]any{"n": 1}, 1, 0))
		require.NoError(t, err)
		second, err := store.Append(mustEntry(t, "b", 2, 2, 1))
		require.NoError(t, err)
		assert.Less(t, first.Sequence, second.Sequence)

		entries, err := store.List(journal.Query{})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "a", entries[0].Event)
		assert.Equal(t, "b", entries[1].Event)
		assert.Equal(t, "notifier-1", entries[0].NotifierID)
		assert.JSONEq(t, `{"n":1}`, string(entries[0].Payload))
		assert.Equal(t, 2, entries[1].Delivered)
		assert.Equal(t, 1, entries[1].Failed)
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		entries, err := store.List(journal.Query{Event: "missing"})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run(name+"/List_FilterAndLimit", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		for i := 0; i < 5; i++ {
			_, err := store.Append(mustEntry(t, "tick", i, 1, 0))
			require.NoError(t, err)
			_, err = store.Append(mustEntry(t, "other", i, 0, 0))
			require.NoError(t, err)
		}

		entries, err := store.List(journal.Query{Event: "tick", Limit: 2})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var last int
		require.NoError(t, json.Unmarshal(entries[1].Payload, &last))
		assert.Equal(t, 4, last, "limit keeps the newest entries")
		assert.Less(t, entries[0].Sequence, entries[1].Sequence)
	})

	t.Run(name+"/Stats", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, err := store.Append(mustEntry(t, "b", nil, 2, 1))
		require.NoError(t, err)
		_, err = store.Append(mustEntry(t, "a", nil, 1, 0))
		require.NoError(t, err)
		_, err = store.Append(mustEntry(t, "b", nil, 3, 0))
		require.NoError(t, err)

		stats, err := store.Stats()
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, journal.Stats{Event: "a", Announcements: 1, Delivered: 1}, stats[0])
		assert.Equal(t, journal.Stats{Event: "b", Announcements: 2, Delivered: 5, Failed: 1}, stats[1])
	})

	t.Run(name+"/Count_and_Clear", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, err := store.Append(mustEntry(t, "a", nil, 0, 0))
		require.NoError(t, err)

		n, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, store.Clear())
		n, err = store.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())

		_, err := store.Append(mustEntry(t, "a", nil, 0, 0))
		assert.ErrorIs(t, err, journal.ErrStoreClosed)
		_, err = store.List(journal.Query{})
		assert.ErrorIs(t, err, journal.ErrStoreClosed)
		_, err = store.Count()
		assert.ErrorIs(t, err, journal.ErrStoreClosed)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContractTest(t, "MemoryStore", func(t *testing.T) journal.Store {
		return journal.NewMemoryStore()
	})
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContractTest(t, "SQLiteStore", func(t *testing.T) journal.Store {
		store, err := journal.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return store
	})
}

func TestNewEntry_UnencodablePayload(t *testing.T) {
	e, err := journal.NewEntry("e", "n", make(chan int), 1, 0)
	assert.Error(t, err)
	assert.Equal(t, "null", string(e.Payload))
	assert.Equal(t, "e", e.Event)
	assert.False(t, e.Timestamp.IsZero())
}
