package eventbus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeDeliversInOrder(t *testing.T) {
	bus := New()

	var order []string
	bus.Subscribe("tick", func(any) { order = append(order, "first") })
	bus.Subscribe("tick", func(any) { order = append(order, "second") })
	bus.Subscribe("tick", func(any) { order = append(order, "third") })

	bus.Emit("tick", nil)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestEmitIsolatesPanickingHandler(t *testing.T) {
	bus := New()

	called := false
	bus.Subscribe("boom", func(any) { panic("handler failure") })
	bus.Subscribe("boom", func(any) { called = true })

	assert.NotPanics(t, func() { bus.Emit("boom", "payload") })
	assert.True(t, called, "handler after the panicking one must still run")
}

func TestUnsubscribeRemovesOnlyOneSubscription(t *testing.T) {
	bus := New()

	var a, b int
	unsubA := bus.Subscribe("ev", func(any) { a++ })
	bus.Subscribe("ev", func(any) { b++ })

	bus.Emit("ev", nil)
	unsubA()
	bus.Emit("ev", nil)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, bus.SubscriberCount("ev"))

	// second call is a no-op
	unsubA()
	assert.Equal(t, 1, bus.SubscriberCount("ev"))
}

func TestHistoryIsCappedFIFO(t *testing.T) {
	bus := New(func(o *Options) { o.MaxHistorySize = 3 })

	for i := 0; i < 5; i++ {
		bus.Emit("ev", i)
	}

	history := bus.History()
	require.Len(t, history, 3)
	assert.Equal(t, 2, history[0].Data)
	assert.Equal(t, 4, history[2].Data)
}

func TestHistoryFilter(t *testing.T) {
	bus := New()
	bus.Emit("a", 1)
	bus.Emit("b", 2)
	bus.Emit("a", 3)

	filtered := bus.History("a")
	require.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.Equal(t, "a", r.Event)
		assert.False(t, r.Timestamp.IsZero())
	}

	assert.Len(t, bus.History(), 3)
}

func TestHistoryReturnsCopy(t *testing.T) {
	bus := New()
	bus.Emit("a", 1)

	history := bus.History()
	history[0].Data = "mutated"

	assert.Equal(t, 1, bus.History()[0].Data)
}

func TestClearAndClearAll(t *testing.T) {
	bus := New()

	var hits int
	bus.Subscribe("a", func(any) { hits++ })
	bus.Subscribe("b", func(any) { hits++ })

	bus.Clear("a")
	bus.Emit("a", nil)
	bus.Emit("b", nil)
	assert.Equal(t, 1, hits, "cleared event must not deliver")
	assert.NotEmpty(t, bus.History(), "Clear keeps history")

	bus.ClearAll()
	bus.Emit("b", nil)
	assert.Equal(t, 1, hits)
	assert.Len(t, bus.History(), 1, "ClearAll wipes history; the post-clear emit is re-recorded")
}

func TestConcurrentEmit(t *testing.T) {
	bus := New(func(o *Options) { o.MaxHistorySize = 1000 })

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				bus.Emit(fmt.Sprintf("worker-%d", n), j)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Len(t, bus.History(), 400)
}
