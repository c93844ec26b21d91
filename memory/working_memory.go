package memory

import (
	"sync"
	"time"

	"github.com/agentgraph-dev/agentgraph/eventbus"
	"github.com/agentgraph-dev/agentgraph/internal/util"
	"github.com/agentgraph-dev/agentgraph/logging"
)

// Metadata describes one stored key without its value.
type Metadata struct {
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// Entry is the payload delivered with memory events and returned by
// inspection helpers: a key together with its value and metadata.
type Entry struct {
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// HistoryRecord is one entry of the mutation history.
type HistoryRecord struct {
	Type      string    `json:"type"` // set, delete or event
	Key       string    `json:"key,omitempty"`
	Event     string    `json:"event,omitempty"`
	Source    string    `json:"source,omitempty"`
	Value     any       `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the exportable snapshot of a session.
type State struct {
	SessionID string              `json:"sessionId"`
	Context   map[string]any      `json:"context"`
	Metadata  map[string]Metadata `json:"metadata"`
	History   []HistoryRecord     `json:"history"`
}

const (
	// DefaultHistorySize caps the mutation history.
	DefaultHistorySize = 1000
	// ExportHistoryTail is how many trailing history records Export includes.
	ExportHistoryTail = 100
)

// Options configures a WorkingMemory.
type Options struct {
	// SessionID identifies the session; a random id is generated when empty.
	SessionID string
	// Bus is the underlying event bus; a fresh one is created when nil.
	Bus *eventbus.Bus
	// HistorySize caps the mutation history. Defaults to DefaultHistorySize.
	HistorySize int
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// WorkingMemory is the versioned key/value store shared by every node of one
// execution session. Safe for concurrent use.
type WorkingMemory struct {
	sessionID   string
	bus         *eventbus.Bus
	logger      logging.Logger
	historySize int

	mu       sync.RWMutex
	context  map[string]any
	metadata map[string]Metadata
	history  []HistoryRecord
}

// New constructs an empty WorkingMemory.
func New(optFns ...func(o *Options)) *WorkingMemory {
	opts := Options{
		HistorySize: DefaultHistorySize,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SessionID == "" {
		opts.SessionID = util.NewID()
	}
	if opts.Bus == nil {
		opts.Bus = eventbus.New(func(o *eventbus.Options) { o.Logger = opts.Logger })
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &WorkingMemory{
		sessionID:   opts.SessionID,
		bus:         opts.Bus,
		logger:      opts.Logger,
		historySize: opts.HistorySize,
		context:     make(map[string]any),
		metadata:    make(map[string]Metadata),
	}
}

// SessionID returns the session identifier.
func (m *WorkingMemory) SessionID() string { return m.sessionID }

// Bus returns the underlying event bus.
func (m *WorkingMemory) Bus() *eventbus.Bus { return m.bus }

// Set stores value under key attributed to source. The key's version starts
// at 1 and increments on every subsequent Set. It emits "memory:{key}" with
// the full entry followed by the generic "memory:update" event.
func (m *WorkingMemory) Set(key string, value any, source string) {
	m.mu.Lock()
	version := m.metadata[key].Version + 1
	now := time.Now()
	m.context[key] = value
	m.metadata[key] = Metadata{Source: source, Timestamp: now, Version: version}
	m.appendHistoryLocked(HistoryRecord{Type: "set", Key: key, Source: source, Value: value, Timestamp: now})
	m.mu.Unlock()

	entry := Entry{Key: key, Value: value, Source: source, Timestamp: now, Version: version}
	m.bus.Emit("memory:"+key, entry)
	m.bus.Emit("memory:update", entry)
}

// Get returns the value stored under key, or nil when absent.
func (m *WorkingMemory) Get(key string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.context[key]
}

// Has reports whether key is present.
func (m *WorkingMemory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.context[key]
	return ok
}

// GetMetadata returns the metadata recorded for key.
func (m *WorkingMemory) GetMetadata(key string) (Metadata, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	md, ok := m.metadata[key]
	return md, ok
}

// Keys returns every stored key.
func (m *WorkingMemory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.context))
	for k := range m.context {
		keys = append(keys, k)
	}
	return keys
}

// Entries returns a copy of every stored entry with its metadata.
func (m *WorkingMemory) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]Entry, 0, len(m.context))
	for k, v := range m.context {
		md := m.metadata[k]
		entries = append(entries, Entry{Key: k, Value: v, Source: md.Source, Timestamp: md.Timestamp, Version: md.Version})
	}
	return entries
}

// Size reports the number of stored keys.
func (m *WorkingMemory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.context)
}

// Delete removes key. Deleting an absent key is a no-op: no event is
// emitted and no history record is written. On an actual removal it emits
// "memory:{key}:deleted" followed by the generic "memory:delete" event.
func (m *WorkingMemory) Delete(key string) bool {
	m.mu.Lock()
	if _, ok := m.context[key]; !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.context, key)
	delete(m.metadata, key)
	m.appendHistoryLocked(HistoryRecord{Type: "delete", Key: key, Timestamp: time.Now()})
	m.mu.Unlock()

	m.bus.Emit("memory:"+key+":deleted", key)
	m.bus.Emit("memory:delete", key)
	return true
}

// Clear removes every key, emitting a deletion event per key and a final
// "memory:clear".
func (m *WorkingMemory) Clear() {
	m.mu.Lock()
	keys := make([]string, 0, len(m.context))
	for k := range m.context {
		keys = append(keys, k)
	}
	m.context = make(map[string]any)
	m.metadata = make(map[string]Metadata)
	now := time.Now()
	for _, k := range keys {
		m.appendHistoryLocked(HistoryRecord{Type: "delete", Key: k, Timestamp: now})
	}
	m.mu.Unlock()

	for _, k := range keys {
		m.bus.Emit("memory:"+k+":deleted", k)
	}
	m.bus.Emit("memory:clear", keys)
}

// Subscribe registers a handler on the underlying bus.
func (m *WorkingMemory) Subscribe(event string, handler eventbus.Handler) func() {
	return m.bus.Subscribe(event, handler)
}

// Emit publishes a custom event through the underlying bus and records it
// in the mutation history as an "event" entry.
func (m *WorkingMemory) Emit(event string, data any) {
	m.mu.Lock()
	m.appendHistoryLocked(HistoryRecord{Type: "event", Event: event, Value: data, Timestamp: time.Now()})
	m.mu.Unlock()

	m.bus.Emit(event, data)
}

// History returns a copy of the mutation history.
func (m *WorkingMemory) History() []HistoryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]HistoryRecord, len(m.history))
	copy(out, m.history)
	return out
}

// Export snapshots the session: context, metadata and the trailing
// ExportHistoryTail history records.
func (m *WorkingMemory) Export() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctx := make(map[string]any, len(m.context))
	for k, v := range m.context {
		ctx[k] = v
	}
	md := make(map[string]Metadata, len(m.metadata))
	for k, v := range m.metadata {
		md[k] = v
	}
	tail := m.history
	if len(tail) > ExportHistoryTail {
		tail = tail[len(tail)-ExportHistoryTail:]
	}
	history := make([]HistoryRecord, len(tail))
	copy(history, tail)
	return State{SessionID: m.sessionID, Context: ctx, Metadata: md, History: history}
}

// Import repopulates context and metadata from a prior Export. History is
// not restored and no events are emitted.
func (m *WorkingMemory) Import(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.context = make(map[string]any, len(state.Context))
	for k, v := range state.Context {
		m.context[k] = v
	}
	m.metadata = make(map[string]Metadata, len(state.Metadata))
	for k, v := range state.Metadata {
		m.metadata[k] = v
	}
}

func (m *WorkingMemory) appendHistoryLocked(rec HistoryRecord) {
	m.history = append(m.history, rec)
	if len(m.history) > m.historySize {
		m.history = m.history[len(m.history)-m.historySize:]
	}
}
