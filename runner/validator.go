package runner

import (
	"context"
	"fmt"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/memory"
)

// FailOpenReason is attached to validator results that could not be parsed.
const FailOpenReason = "Could not parse validator response"

// Validator asks the LLM whether the input passes the node's validation
// prompt. The strategy fails open: an unparseable response counts as valid
// so a flaky model never blocks the pipeline.
type Validator struct{}

// Run implements Runner.
func (Validator) Run(ctx context.Context, node graph.Node, input any, mem *memory.WorkingMemory, env Env) (any, error) {
	system := node.Config.Prompt
	if system == "" {
		system = "You are a validation agent. Decide whether the input is acceptable."
	}
	system += "\n\nRespond with a JSON object of the form {\"valid\": true|false, \"reason\": \"<why>\"}. Respond with JSON only."

	user := fmt.Sprintf("Input:\n%s", stringify(input))

	text, err := env.call(ctx, node, system, user,
		node.Config.EffectiveTemperature(DefaultValidatorTemperature),
		node.Config.EffectiveMaxTokens(DefaultMaxTokens))
	if err != nil {
		return nil, err
	}

	parsed, ok := parseJSON(text)
	if ok {
		if obj, isObj := parsed.(map[string]any); isObj {
			if valid, hasValid := obj["valid"].(bool); hasValid {
				reason, _ := obj["reason"].(string)
				return map[string]any{"valid": valid, "reason": reason, "input": input}, nil
			}
		}
	}
	return map[string]any{"valid": true, "reason": FailOpenReason, "input": input}, nil
}

// IsInvalid reports whether a validator result explicitly carries
// valid=false, along with its reason.
func IsInvalid(result any) (string, bool) {
	obj, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	valid, ok := obj["valid"].(bool)
	if !ok || valid {
		return "", false
	}
	reason, _ := obj["reason"].(string)
	return reason, true
}
