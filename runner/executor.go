package runner

import (
	"context"
	"fmt"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/memory"
)

// Executor is the general-purpose LLM strategy: it sends the node's prompt
// together with the input and the serialized working memory, and returns
// the completion. When the node declares a json/object output schema the
// completion is parsed as JSON, keeping the raw text on parse failure.
type Executor struct{}

// Run implements Runner. A node without a prompt passes its input through.
func (Executor) Run(ctx context.Context, node graph.Node, input any, mem *memory.WorkingMemory, env Env) (any, error) {
	if !node.Config.IsEnabled() || node.Config.Prompt == "" {
		return input, nil
	}

	user := fmt.Sprintf("Input:\n%s", stringify(input))
	if memCtx := memoryContext(mem); memCtx != "" {
		user += fmt.Sprintf("\n\nWorking memory:\n%s", memCtx)
	}

	text, err := env.call(ctx, node, node.Config.Prompt, user,
		node.Config.EffectiveTemperature(DefaultExecutorTemperature),
		node.Config.EffectiveMaxTokens(DefaultMaxTokens))
	if err != nil {
		return nil, err
	}

	if schema := node.Config.OutputSchema; schema != nil && (schema.Type == "json" || schema.Type == "object") {
		if parsed, ok := parseJSON(text); ok {
			return parsed, nil
		}
	}
	return text, nil
}
