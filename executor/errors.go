package executor

import (
	"errors"
	"fmt"
)

// ErrNoEntryNode is returned when no entry node can be resolved for the
// graph: the explicit entry id is unknown, or the graph has no nodes.
var ErrNoEntryNode = errors.New("no entry node could be resolved")

// DepthExceededError is returned when a call chain recurses past the
// configured maximum depth. It is the engine's sole cycle-safety mechanism.
type DepthExceededError struct {
	Depth    int
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("recursion depth %d exceeds the maximum of %d", e.Depth, e.MaxDepth)
}

// NodeError wraps a failure raised by a node's behavior strategy.
type NodeError struct {
	NodeID   string
	NodeName string
	Err      error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.NodeName, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// ValidationError is returned when a Validates edge's target explicitly
// rejected a node's output.
type ValidationError struct {
	NodeName      string
	ValidatorName string
	Reason        string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q rejected output of node %q: %s", e.ValidatorName, e.NodeName, e.Reason)
}

// NoFallbackError is terminal: a node failed and has no Fallback To edge,
// so the failure propagates to the original caller.
type NoFallbackError struct {
	NodeName string
	Err      error
}

func (e *NoFallbackError) Error() string {
	return fmt.Sprintf("node %q failed and no fallback is available: %v", e.NodeName, e.Err)
}

func (e *NoFallbackError) Unwrap() error { return e.Err }
