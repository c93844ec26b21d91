package runner

import (
	"context"
	"fmt"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/memory"
)

// DefaultAggregationPrompt instructs the LLM-backed aggregation strategy.
const DefaultAggregationPrompt = "Combine these outputs into a single coherent result"

// Aggregator combines multiple upstream outputs. The input is treated as a
// list of sources (a non-list input becomes a single-element list), then:
//
//   - "merge": shallow left-to-right merge of object sources
//   - "llm":   ask the model to synthesize a combined result
//   - otherwise the sources list is returned unchanged
type Aggregator struct{}

// Run implements Runner.
func (Aggregator) Run(ctx context.Context, node graph.Node, input any, mem *memory.WorkingMemory, env Env) (any, error) {
	sources, ok := input.([]any)
	if !ok {
		sources = []any{input}
	}

	switch node.Config.AggregationStrategy {
	case "merge":
		merged := make(map[string]any)
		for _, src := range sources {
			if obj, isObj := asMap(src); isObj {
				for k, v := range obj {
					merged[k] = v
				}
			}
		}
		return merged, nil

	case "llm":
		system := node.Config.Prompt
		if system == "" {
			system = DefaultAggregationPrompt
		}
		user := fmt.Sprintf("Outputs to combine:\n%s", stringify(sources))
		text, err := env.call(ctx, node, system, user,
			node.Config.EffectiveTemperature(DefaultExecutorTemperature),
			node.Config.EffectiveMaxTokens(DefaultMaxTokens))
		if err != nil {
			return nil, err
		}
		if parsed, parsedOK := parseJSON(text); parsedOK {
			return parsed, nil
		}
		return text, nil

	default:
		return sources, nil
	}
}
