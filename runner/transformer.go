package runner

import (
	"context"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/memory"
)

// Transformer reshapes its input without any LLM call. A programmatic
// Transform function wins over a declarative FieldMapping; with neither the
// input passes through unchanged.
type Transformer struct{}

// Run implements Runner.
func (Transformer) Run(_ context.Context, node graph.Node, input any, mem *memory.WorkingMemory, _ Env) (any, error) {
	if node.Config.Transform != nil {
		return node.Config.Transform(input, mem)
	}
	if len(node.Config.FieldMapping) == 0 {
		return input, nil
	}

	source, _ := asMap(input)
	out := make(map[string]any, len(node.Config.FieldMapping))
	for outputKey, inputKey := range node.Config.FieldMapping {
		if v, ok := source[inputKey]; ok {
			out[outputKey] = v
		} else {
			out[outputKey] = nil
		}
	}
	return out, nil
}
