package executor

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/agentgraph-dev/agentgraph/internal/util"
)

// Stage is the lifecycle stage a trace entry records.
type Stage string

const (
	// StageStart marks the beginning of a node invocation.
	StageStart Stage = "start"
	// StageComplete marks a successful node invocation.
	StageComplete Stage = "complete"
	// StageError marks a failed node invocation.
	StageError Stage = "error"
)

// TraceEntry is one record of the append-only execution audit log.
type TraceEntry struct {
	ID        string    `json:"id"`
	NodeID    string    `json:"nodeId"`
	NodeName  string    `json:"nodeName"`
	Stage     Stage     `json:"stage"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultTraceSize caps the trace; the oldest entries are evicted first.
const DefaultTraceSize = 1000

type trace struct {
	mu      sync.Mutex
	entries []TraceEntry
	cap     int
}

func newTrace(cap int) *trace {
	if cap <= 0 {
		cap = DefaultTraceSize
	}
	return &trace{cap: cap}
}

func (t *trace) record(nodeID, nodeName string, stage Stage, data any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, TraceEntry{
		ID:        util.NewID(),
		NodeID:    nodeID,
		NodeName:  nodeName,
		Stage:     stage,
		Data:      data,
		Timestamp: time.Now(),
	})
	if len(t.entries) > t.cap {
		t.entries = t.entries[len(t.entries)-t.cap:]
	}
}

func (t *trace) snapshot() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// MarshalTrace serializes a trace snapshot for replay or inspection.
func MarshalTrace(entries []TraceEntry) ([]byte, error) {
	return json.Marshal(entries)
}
