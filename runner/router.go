package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/memory"
)

// Router asks the LLM to pick one of the node's configured routes and maps
// the choice to its target node id. An unknown route or unparseable
// response falls back to the default route when configured, otherwise the
// input travels on with a nil route.
type Router struct{}

// Run implements Runner.
func (Router) Run(ctx context.Context, node graph.Node, input any, mem *memory.WorkingMemory, env Env) (any, error) {
	routes := node.Config.Routes
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)

	system := node.Config.Prompt
	if system == "" {
		system = "You are a routing agent. Decide which route the input should take."
	}
	system += fmt.Sprintf(
		"\n\nRespond with a JSON object of the form {\"route\": \"<name>\"} where <name> is one of: %s. Respond with JSON only.",
		strings.Join(names, ", "))

	user := fmt.Sprintf("Input:\n%s", stringify(input))

	text, err := env.call(ctx, node, system, user,
		node.Config.EffectiveTemperature(DefaultRouterTemperature),
		node.Config.EffectiveMaxTokens(DefaultMaxTokens))
	if err != nil {
		return nil, err
	}

	if route, ok := parseRoute(text); ok {
		if target, known := routes[route]; known {
			return map[string]any{"route": route, "targetNodeId": target, "input": input}, nil
		}
	}
	return fallbackRoute(node.Config, input), nil
}

// parseRoute extracts the chosen route name from a {"route": ...} response.
func parseRoute(text string) (string, bool) {
	parsed, ok := parseJSON(text)
	if !ok {
		return "", false
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return "", false
	}
	route, ok := obj["route"].(string)
	return route, ok && route != ""
}

// fallbackRoute resolves the default route; without one the input is
// forwarded with a nil route.
func fallbackRoute(cfg graph.Config, input any) map[string]any {
	if cfg.DefaultRoute == "" {
		return map[string]any{"route": nil, "input": input}
	}
	target := cfg.DefaultRoute
	if mapped, ok := cfg.Routes[cfg.DefaultRoute]; ok {
		target = mapped
	}
	return map[string]any{"route": cfg.DefaultRoute, "targetNodeId": target, "input": input}
}
