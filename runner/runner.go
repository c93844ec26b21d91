package runner

import (
	"context"
	"fmt"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/memory"
	"github.com/agentgraph-dev/agentgraph/model"
)

// Default sampling parameters per strategy.
const (
	DefaultExecutorTemperature  = 0.7
	DefaultRouterTemperature    = 0.3
	DefaultValidatorTemperature = 0.2
	DefaultMaxTokens            = 2000
)

// Env bundles the session-wide collaborators a strategy may need: the LLM
// caller, the session API key and the provider addressing config.
type Env struct {
	Caller    model.Caller
	APIKey    string
	APIConfig model.APIConfig
}

// call performs one LLM call for node, applying the node's APIKeyOverride
// over the session key.
func (e Env) call(ctx context.Context, node graph.Node, system, user string, temperature float64, maxTokens int) (string, error) {
	if e.Caller == nil {
		return "", fmt.Errorf("node %q requires an LLM caller but none is configured", node.Name)
	}
	apiKey := e.APIKey
	if node.Config.APIKeyOverride != "" {
		apiKey = node.Config.APIKeyOverride
	}
	return e.Caller.Call(ctx, model.CallOptions{
		APIKey:       apiKey,
		Provider:     e.APIConfig.Provider,
		Endpoint:     e.APIConfig.Endpoint,
		Model:        e.APIConfig.Model,
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    maxTokens,
		Temperature:  temperature,
	})
}

// Runner is one behavior strategy.
type Runner interface {
	Run(ctx context.Context, node graph.Node, input any, mem *memory.WorkingMemory, env Env) (any, error)
}

// Passthrough returns its input unchanged. It backs disabled nodes and
// unrecognized node types.
type Passthrough struct{}

// Run implements Runner.
func (Passthrough) Run(_ context.Context, _ graph.Node, input any, _ *memory.WorkingMemory, _ Env) (any, error) {
	return input, nil
}

var registry = map[graph.NodeType]Runner{
	graph.TypeExecutor:    Executor{},
	graph.TypeRouter:      Router{},
	graph.TypeValidator:   Validator{},
	graph.TypeTransformer: Transformer{},
	graph.TypeAggregator:  Aggregator{},
	graph.TypeSensor:      Sensor{},
}

// For returns the strategy for a node type; unknown or empty types map to
// Passthrough.
func For(t graph.NodeType) Runner {
	if r, ok := registry[t]; ok {
		return r
	}
	return Passthrough{}
}
