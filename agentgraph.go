// Package agentgraph provides a high-level façade over the core execution
// engine, turning a configured set of agent nodes and typed edges into an
// executable control-flow graph. Most applications interact with this
// package by:
//  1. Building or parsing a graph.Definition
//  2. Creating an AgentGraph via New() with a model caller and session options
//  3. Running it with Execute() and inspecting Trace()/Memory() afterwards
//
// The façade delegates traversal to executor.Executor while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a real model caller
// (model/anthropic or model/openai) and a structured logger.
package agentgraph

import (
	"context"

	"github.com/agentgraph-dev/agentgraph/eventbus"
	"github.com/agentgraph-dev/agentgraph/executor"
	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/logging"
	"github.com/agentgraph-dev/agentgraph/memory"
	"github.com/agentgraph-dev/agentgraph/model"
)

// Options configures the AgentGraph instance.
type Options struct {
	// Caller executes LLM-backed node strategies. Tests and examples can
	// use model.NewMockCaller(); leave nil for graphs without LLM nodes.
	Caller model.Caller

	// APIKey is the session-wide model API key. Individual nodes may
	// override it via their agent config.
	APIKey string

	// APIConfig addresses the model provider (provider, endpoint, model id).
	APIConfig model.APIConfig

	// SessionID identifies this execution session's working memory.
	// Generated when empty.
	SessionID string

	// MaxDepth bounds recursive node execution. Defaults to
	// executor.DefaultMaxDepth.
	MaxDepth int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentGraph is the high-level façade aggregating the executor and the
// session working memory.
type AgentGraph struct {
	opts Options
	exec *executor.Executor
}

// New normalizes the definition and creates a ready-to-run AgentGraph.
func New(def graph.Definition, optFns ...func(o *Options)) *AgentGraph {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	mem := memory.New(func(o *memory.Options) {
		o.SessionID = opts.SessionID
		o.Logger = opts.Logger
	})
	exec := executor.New(def, func(o *executor.Options) {
		o.Caller = opts.Caller
		o.APIKey = opts.APIKey
		o.APIConfig = opts.APIConfig
		o.Memory = mem
		o.MaxDepth = opts.MaxDepth
		o.Logger = opts.Logger
	})
	return &AgentGraph{opts: opts, exec: exec}
}

// Execute runs the graph with the given input, optionally starting from an
// explicit entry node id, and returns the bubbled-up result.
func (a *AgentGraph) Execute(ctx context.Context, input any, entryNodeID ...string) (any, error) {
	return a.exec.Execute(ctx, input, entryNodeID...)
}

// Wait blocks until every event-triggered node invocation has finished.
func (a *AgentGraph) Wait() { a.exec.Wait() }

// Trace returns the ordered execution audit log.
func (a *AgentGraph) Trace() []executor.TraceEntry { return a.exec.GetTrace() }

// TraceJSON serializes the trace for replay or inspection.
func (a *AgentGraph) TraceJSON() ([]byte, error) { return a.exec.TraceJSON() }

// Memory returns the session's working memory.
func (a *AgentGraph) Memory() *memory.WorkingMemory { return a.exec.Memory() }

// Subscribe registers a handler on the session's event bus.
func (a *AgentGraph) Subscribe(event string, handler eventbus.Handler) func() {
	return a.exec.Memory().Subscribe(event, handler)
}
