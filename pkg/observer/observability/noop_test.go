package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordAnnouncement(ctx, "test", 1, time.Millisecond)
		m.RecordDelivery(ctx, "test", nil)
		m.RecordDelivery(ctx, "test", errors.New("x"))
		m.RecordSubscriptions(ctx, -2)
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartNotifySpan(ctx, "test", "n-1")
	assert.Equal(t, ctx, newCtx, "noop should return the same context")
	assert.False(t, span.IsRecording())

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(ctx, "delivered", attribute.String("k", "v"))
		sm.EndSpanWithError(span, errors.New("x"))
	})
}
