package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/logging"
	"github.com/agentgraph-dev/agentgraph/memory"
	"github.com/agentgraph-dev/agentgraph/model"
	"github.com/agentgraph-dev/agentgraph/runner"
)

// DefaultMaxDepth bounds recursive node execution per call chain.
const DefaultMaxDepth = 50

// Options configures an Executor.
type Options struct {
	// Caller executes LLM-backed strategies. Leave nil for graphs whose
	// nodes never call a model.
	Caller model.Caller

	// APIKey is the session key; nodes may override it per node.
	APIKey string

	// APIConfig addresses the model provider.
	APIConfig model.APIConfig

	// Memory is the session's working memory; a fresh one is created when nil.
	Memory *memory.WorkingMemory

	// MaxDepth bounds recursion. Defaults to DefaultMaxDepth.
	MaxDepth int

	// TraceSize caps the execution trace. Defaults to DefaultTraceSize.
	TraceSize int

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Executor traverses one agent graph. The graph is supplied at construction
// and read-only during execution; working memory is the only shared mutable
// state. Safe for concurrent use, though interleaved invocations are only
// synchronized through memory's per-key versioning.
type Executor struct {
	graph    *graph.Graph
	mem      *memory.WorkingMemory
	env      runner.Env
	maxDepth int
	logger   logging.Logger
	trace    *trace

	wg        sync.WaitGroup
	subscribe sync.Once
}

// New normalizes the definition and constructs an Executor around it.
func New(def graph.Definition, optFns ...func(o *Options)) *Executor {
	return NewFromGraph(def.Normalize(), optFns...)
}

// NewFromGraph constructs an Executor around an already-normalized graph.
func NewFromGraph(g *graph.Graph, optFns ...func(o *Options)) *Executor {
	opts := Options{
		MaxDepth:  DefaultMaxDepth,
		TraceSize: DefaultTraceSize,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Memory == nil {
		opts.Memory = memory.New(func(o *memory.Options) { o.Logger = opts.Logger })
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Executor{
		graph:    g,
		mem:      opts.Memory,
		env:      runner.Env{Caller: opts.Caller, APIKey: opts.APIKey, APIConfig: opts.APIConfig},
		maxDepth: opts.MaxDepth,
		logger:   opts.Logger,
		trace:    newTrace(opts.TraceSize),
	}
}

// Memory returns the session's working memory.
func (e *Executor) Memory() *memory.WorkingMemory { return e.mem }

// Graph returns the canonical graph.
func (e *Executor) Graph() *graph.Graph { return e.graph }

// GetTrace returns the ordered execution audit log recorded so far.
func (e *Executor) GetTrace() []TraceEntry { return e.trace.snapshot() }

// TraceJSON serializes the trace for replay or inspection.
func (e *Executor) TraceJSON() ([]byte, error) { return MarshalTrace(e.trace.snapshot()) }

// FindEntryNode picks the node execution starts from: the first enabled
// node that is not the target of any Delegates To edge. When every node has
// incoming delegation the first enabled node wins; when no node is enabled
// the first node overall does.
func (e *Executor) FindEntryNode() (graph.Node, error) {
	nodes := e.graph.Nodes()
	if len(nodes) == 0 {
		return graph.Node{}, ErrNoEntryNode
	}

	delegated := make(map[string]bool)
	for _, edge := range e.graph.Edges() {
		if edge.Type == graph.EdgeDelegatesTo {
			delegated[edge.DestinationID] = true
		}
	}

	for _, n := range nodes {
		if n.Config.IsEnabled() && !delegated[n.ID] {
			return n, nil
		}
	}
	for _, n := range nodes {
		if n.Config.IsEnabled() {
			return n, nil
		}
	}
	return nodes[0], nil
}

// Execute runs the graph from the resolved entry node and returns the
// bubbled-up result. Pass an entryNodeID to start from a specific node
// instead of the computed entry point.
func (e *Executor) Execute(ctx context.Context, input any, entryNodeID ...string) (any, error) {
	var entry graph.Node
	if len(entryNodeID) > 0 && entryNodeID[0] != "" {
		n, ok := e.graph.Node(entryNodeID[0])
		if !ok {
			return nil, fmt.Errorf("entry node %q not found: %w", entryNodeID[0], ErrNoEntryNode)
		}
		entry = n
	} else {
		n, err := e.FindEntryNode()
		if err != nil {
			return nil, err
		}
		entry = n
	}

	e.subscribe.Do(func() { e.registerEventNodes(ctx) })

	e.logger.Info("executing agent graph", "entry", entry.Name, "session", e.mem.SessionID())
	return e.runNode(ctx, entry, input, 0)
}

// Wait blocks until every event-triggered invocation spawned so far has
// finished.
func (e *Executor) Wait() { e.wg.Wait() }

// registerEventNodes subscribes every enabled node that declares events so
// a matching emit re-invokes it. Re-invocations run on their own goroutine
// with a fresh depth of zero, decoupled from the emitting call chain.
func (e *Executor) registerEventNodes(ctx context.Context) {
	for _, n := range e.graph.Nodes() {
		if !n.Config.IsEnabled() || len(n.Config.Events) == 0 {
			continue
		}
		node := n
		for _, event := range node.Config.Events {
			e.mem.Subscribe(event, func(data any) {
				e.wg.Add(1)
				go func() {
					defer e.wg.Done()
					if _, err := e.runNode(ctx, node, data, 0); err != nil {
						e.logger.Error("event-triggered node failed", "node", node.Name, "error", err)
					}
				}()
			})
		}
	}
}

// runNode executes one node: depth guard, disabled pass-through, input
// write, strategy dispatch, then edge following on success or fallback
// search on failure.
func (e *Executor) runNode(ctx context.Context, node graph.Node, input any, depth int) (any, error) {
	if depth > e.maxDepth {
		return nil, &DepthExceededError{Depth: depth, MaxDepth: e.maxDepth}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !node.Config.IsEnabled() {
		return input, nil
	}

	e.mem.Set(node.Name+".input", input, node.Name)
	e.trace.record(node.ID, node.Name, StageStart, input)
	e.logger.Debug("running node", "node", node.Name, "type", node.Config.Type, "depth", depth)

	output, err := runner.For(node.Config.Type).Run(ctx, node, input, e.mem, e.env)
	if err != nil {
		nodeErr := &NodeError{NodeID: node.ID, NodeName: node.Name, Err: err}
		e.trace.record(node.ID, node.Name, StageError, err.Error())
		e.mem.Emit(node.Name+".error", err.Error())
		e.logger.Warn("node failed, searching fallback", "node", node.Name, "error", err)
		return e.followFallbackEdges(ctx, node, input, depth, nodeErr)
	}

	e.mem.Set(node.Name+".output", output, node.Name)
	e.trace.record(node.ID, node.Name, StageComplete, output)
	e.mem.Emit(node.Name+".complete", output)
	e.mem.Emit("node:complete", map[string]any{"nodeId": node.ID, "nodeName": node.Name, "output": output})

	return e.followEdges(ctx, node, output, depth)
}

// followEdges interprets every outgoing edge of a completed node in input
// order: Delegates To recurses sequentially, Reports To is a deliberate
// no-op, Triggers emits and moves on, Depends On recurses only when the
// target has already produced output, Validates gates the output through
// the target validator. Edges outside the vocabulary are ignored.
//
// A router-shaped output ({route, targetNodeId}) additionally invokes its
// target after the edge loop has run, and that result is returned directly.
func (e *Executor) followEdges(ctx context.Context, node graph.Node, output any, depth int) (any, error) {
	var results []any

	for _, edge := range e.graph.Outgoing(node.ID) {
		target, ok := e.graph.Node(edge.DestinationID)
		if !ok {
			continue
		}

		switch edge.Type {
		case graph.EdgeDelegatesTo:
			res, err := e.runNode(ctx, target, output, depth+1)
			if err != nil {
				return nil, err
			}
			results = append(results, res)

		case graph.EdgeReportsTo:
			// Deliberate no-op: reporting edges do not propagate results.

		case graph.EdgeTriggers:
			e.mem.Emit("trigger:"+target.Name, output)

		case graph.EdgeDependsOn:
			key := target.Name + ".output"
			if !e.mem.Has(key) {
				continue
			}
			res, err := e.runNode(ctx, target, e.mem.Get(key), depth+1)
			if err != nil {
				return nil, err
			}
			results = append(results, res)

		case graph.EdgeValidates:
			verdict, err := (runner.Validator{}).Run(ctx, target, output, e.mem, e.env)
			if err != nil {
				return nil, &NodeError{NodeID: target.ID, NodeName: target.Name, Err: err}
			}
			if reason, invalid := runner.IsInvalid(verdict); invalid {
				return nil, &ValidationError{NodeName: node.Name, ValidatorName: target.Name, Reason: reason}
			}
		}
	}

	if routed, ok := routerTarget(output); ok {
		if target, exists := e.graph.Node(routed.targetNodeID); exists {
			return e.runNode(ctx, target, routed.input, depth+1)
		}
	}

	if len(results) > 0 {
		return results[len(results)-1], nil
	}
	return output, nil
}

type routedOutput struct {
	targetNodeID string
	input        any
}

// routerTarget detects the router output convention: a map carrying a
// non-empty targetNodeId. The routed input is the map's "input" value,
// falling back to the whole output when absent.
func routerTarget(output any) (routedOutput, bool) {
	obj, ok := output.(map[string]any)
	if !ok {
		return routedOutput{}, false
	}
	target, ok := obj["targetNodeId"].(string)
	if !ok || target == "" {
		return routedOutput{}, false
	}
	input := output
	if v, present := obj["input"]; present && v != nil {
		input = v
	}
	return routedOutput{targetNodeID: target, input: input}, true
}

// followFallbackEdges runs the first Fallback To target with the failed
// node's original input. Without one the failure is terminal.
func (e *Executor) followFallbackEdges(ctx context.Context, node graph.Node, input any, depth int, cause error) (any, error) {
	for _, edge := range e.graph.Outgoing(node.ID) {
		if edge.Type != graph.EdgeFallbackTo {
			continue
		}
		target, ok := e.graph.Node(edge.DestinationID)
		if !ok {
			continue
		}
		e.logger.Info("running fallback", "failed", node.Name, "fallback", target.Name)
		return e.runNode(ctx, target, input, depth+1)
	}
	return nil, &NoFallbackError{NodeName: node.Name, Err: cause}
}
