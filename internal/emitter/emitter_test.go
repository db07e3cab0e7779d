package emitter

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_EmitDeliversToTopicSubscribers(t *testing.T) {
	e := New(slog.Default())

	var scan []any

	var odom []any

	e.Subscribe("/scan", func(msg any) { scan = append(scan, msg) })
	e.Subscribe("/odom", func(msg any) { odom = append(odom, msg) })

	e.Emit("/scan", map[string]any{"ranges": []any{}})

	require.Len(t, scan, 1)
	assert.Equal(t, map[string]any{"ranges": []any{}}, scan[0])
	assert.Empty(t, odom)
}

func TestEmitter_EmitOrder(t *testing.T) {
	e := New(slog.Default())

	var order []int

	e.Subscribe("/t", func(any) { order = append(order, 1) })
	e.Subscribe("/t", func(any) { order = append(order, 2) })
	e.Subscribe("/t", func(any) { order = append(order, 3) })

	e.Emit("/t", nil)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestEmitter_Unsubscribe(t *testing.T) {
	e := New(slog.Default())

	var first, second int

	id := e.Subscribe("/t", func(any) { first++ })
	e.Subscribe("/t", func(any) { second++ })

	last := e.Unsubscribe("/t", id)
	assert.False(t, last)
	assert.Equal(t, 1, e.SubscriberCount("/t"))

	e.Emit("/t", nil)

	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestEmitter_UnsubscribeLastReportsEmpty(t *testing.T) {
	e := New(slog.Default())

	id := e.Subscribe("/t", func(any) {})

	assert.True(t, e.Unsubscribe("/t", id))
	assert.Zero(t, e.SubscriberCount("/t"))
}

func TestEmitter_UnsubscribeUnknownID(t *testing.T) {
	e := New(slog.Default())

	e.Subscribe("/t", func(any) {})

	assert.False(t, e.Unsubscribe("/t", "subscribe:/t:999"))
	assert.Equal(t, 1, e.SubscriberCount("/t"))
}

func TestEmitter_EmitWithoutSubscribers(t *testing.T) {
	e := New(slog.Default())

	// Must not panic.
	e.Emit("/nobody", "msg")
}
