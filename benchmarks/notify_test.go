package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/observer/pkg/observer"
)

var discard = observer.HandlerFunc(func(context.Context, observer.Notification) error { return nil })

// buildRegistry registers n unscoped listeners for "tick" and returns the
// registry with a notifier.
func buildRegistry(n int) (*observer.Registry, observer.Observable) {
	reg := observer.NewRegistry()
	for i := 0; i < n; i++ {
		e := observer.NewEntity()
		_ = reg.Listen(&e, "tick", discard)
	}
	notifier := observer.NewEntity()
	return reg, &notifier
}

// BenchmarkNotify_10 fans out to 10 listeners.
func BenchmarkNotify_10(b *testing.B) {
	reg, n := buildRegistry(10)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Notify(ctx, n, "tick", i)
	}
}

// BenchmarkNotify_100 fans out to 100 listeners.
func BenchmarkNotify_100(b *testing.B) {
	reg, n := buildRegistry(100)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Notify(ctx, n, "tick", i)
	}
}

// BenchmarkNotify_Miss announces an event nobody listens to among 1000 subscriptions.
func BenchmarkNotify_Miss(b *testing.B) {
	reg, n := buildRegistry(1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Notify(ctx, n, "other", nil)
	}
}

// BenchmarkListen_Duplicate measures duplicate detection against 100 subscriptions.
func BenchmarkListen_Duplicate(b *testing.B) {
	reg, _ := buildRegistry(100)
	e := observer.NewEntity()
	_ = reg.Listen(&e, "tick", discard)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Listen(&e, "tick", discard)
	}
}

// BenchmarkListenStop measures a subscribe/unsubscribe cycle.
func BenchmarkListenStop(b *testing.B) {
	reg, _ := buildRegistry(100)
	e := observer.NewEntity()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Listen(&e, "tick", discard)
		_, _ = reg.StopListening(&e, observer.Filter{})
	}
}
