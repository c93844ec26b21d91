package eventbus

import (
	"sync"
	"time"

	"github.com/agentgraph-dev/agentgraph/logging"
)

// Handler receives the payload of an emitted event.
type Handler func(data any)

// Record is one entry of the bus history: a single emit with its payload
// and the time it happened.
type Record struct {
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultMaxHistorySize bounds the history ring buffer unless overridden.
const DefaultMaxHistorySize = 100

// Options configures a Bus.
type Options struct {
	// MaxHistorySize caps the emit history; the oldest record is evicted
	// first once the cap is reached. Defaults to DefaultMaxHistorySize.
	MaxHistorySize int

	// Logger receives a warning for every handler panic. Defaults to NoOp.
	Logger logging.Logger
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous in-process pub/sub bus with bounded history.
// The zero value is not usable; construct with New.
type Bus struct {
	mu             sync.RWMutex
	nextID         uint64
	handlers       map[string][]subscription
	history        []Record
	maxHistorySize int
	logger         logging.Logger
}

// New constructs an empty Bus.
func New(optFns ...func(o *Options)) *Bus {
	opts := Options{
		MaxHistorySize: DefaultMaxHistorySize,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxHistorySize <= 0 {
		opts.MaxHistorySize = DefaultMaxHistorySize
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Bus{
		handlers:       make(map[string][]subscription),
		maxHistorySize: opts.MaxHistorySize,
		logger:         opts.Logger,
	}
}

// Subscribe registers a handler for the named event and returns a function
// that removes exactly this subscription. Handlers for the same event are
// invoked in subscription order.
func (b *Bus) Subscribe(event string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[event] = append(b.handlers[event], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[event]
		for i, s := range subs {
			if s.id == id {
				b.handlers[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit appends the event to history and invokes every subscribed handler
// synchronously, in subscription order. A panicking handler is logged and
// skipped; it never prevents delivery to the handlers after it.
func (b *Bus) Emit(event string, data any) {
	b.mu.Lock()
	b.history = append(b.history, Record{Event: event, Data: data, Timestamp: time.Now()})
	if len(b.history) > b.maxHistorySize {
		b.history = b.history[len(b.history)-b.maxHistorySize:]
	}
	subs := make([]subscription, len(b.handlers[event]))
	copy(subs, b.handlers[event])
	b.mu.Unlock()

	for _, s := range subs {
		b.invoke(event, s.handler, data)
	}
}

func (b *Bus) invoke(event string, handler Handler, data any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("event handler panicked", "event", event, "panic", r)
		}
	}()
	handler(data)
}

// Clear removes all handlers for one event. History is untouched.
func (b *Bus) Clear(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, event)
}

// ClearAll removes every handler and wipes the history.
func (b *Bus) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]subscription)
	b.history = nil
}

// History returns a copy of the recorded emits, optionally filtered to a
// single event name.
func (b *Bus) History(filterEvent ...string) []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(filterEvent) == 0 || filterEvent[0] == "" {
		out := make([]Record, len(b.history))
		copy(out, b.history)
		return out
	}
	var out []Record
	for _, r := range b.history {
		if r.Event == filterEvent[0] {
			out = append(out, r)
		}
	}
	return out
}

// SubscriberCount reports the number of live subscriptions for an event.
func (b *Bus) SubscriberCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}
