package graph

import (
	"strings"
)

// NodeType selects the behavior strategy a node is dispatched to.
type NodeType string

// The closed set of node type variants. A node whose type is not one of
// these is executed as an identity pass-through.
const (
	TypeExecutor    NodeType = "executor"
	TypeRouter      NodeType = "router"
	TypeValidator   NodeType = "validator"
	TypeTransformer NodeType = "transformer"
	TypeAggregator  NodeType = "aggregator"
	TypeSensor      NodeType = "sensor"
)

// EdgeType is the semantic meaning of an edge. The vocabulary is closed:
// traversal ignores every edge whose type is not listed here.
type EdgeType string

// Canonical edge types. Hyphenated lowercase aliases ("delegates-to") are
// accepted by ParseEdgeType and normalized to these values.
const (
	EdgeDelegatesTo EdgeType = "Delegates To"
	EdgeReportsTo   EdgeType = "Reports To"
	EdgeTriggers    EdgeType = "Triggers"
	EdgeDependsOn   EdgeType = "Depends On"
	EdgeValidates   EdgeType = "Validates"
	EdgeFallbackTo  EdgeType = "Fallback To"

	// EdgeConnection is the default for edges carrying no resolvable type.
	// It has no traversal semantics.
	EdgeConnection EdgeType = "Connection"
)

// ParseEdgeType resolves a raw edge type label to its canonical form. The
// second return is false for labels outside the vocabulary.
func ParseEdgeType(raw string) (EdgeType, bool) {
	key := strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(raw)))
	switch key {
	case "delegates to":
		return EdgeDelegatesTo, true
	case "reports to":
		return EdgeReportsTo, true
	case "triggers":
		return EdgeTriggers, true
	case "depends on":
		return EdgeDependsOn, true
	case "validates":
		return EdgeValidates, true
	case "fallback to":
		return EdgeFallbackTo, true
	default:
		return EdgeType(raw), false
	}
}

// OutputSchema declares the expected shape of an executor node's LLM output.
// When Type is "json" or "object" the response is parsed as JSON, falling
// back to the raw text on parse failure.
type OutputSchema struct {
	Type string `json:"type"`
}

// Config is the behavior configuration of one agent node.
type Config struct {
	// Enabled defaults to true when absent; a disabled node is a pure
	// pass-through that touches neither trace nor memory.
	Enabled *bool    `json:"enabled,omitempty"`
	Type    NodeType `json:"type"`

	// Prompt is the node's system prompt for LLM-backed strategies.
	Prompt string `json:"prompt,omitempty"`

	// Events lists working-memory event names that re-invoke this node.
	Events []string `json:"events,omitempty"`

	// Routes maps a route name chosen by a router to a target node id.
	Routes       map[string]string `json:"routes,omitempty"`
	DefaultRoute string            `json:"defaultRoute,omitempty"`

	// AggregationStrategy selects how an aggregator combines its sources:
	// "merge", "llm", or anything else for the identity strategy.
	AggregationStrategy string `json:"aggregationStrategy,omitempty"`

	// FieldMapping maps output field names to input field names for the
	// transformer strategy.
	FieldMapping map[string]string `json:"fieldMapping,omitempty"`

	// Transform takes precedence over FieldMapping when set. Not
	// serializable; wire it up programmatically.
	Transform TransformFunc `json:"-"`

	MaxTokens      int      `json:"maxTokens,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	APIKeyOverride string   `json:"apiKeyOverride,omitempty"`

	OutputSchema *OutputSchema `json:"outputSchema,omitempty"`
}

// TransformFunc is a programmatic transformer body. The second parameter is
// a read view of the session's working memory.
type TransformFunc func(input any, mem MemoryReader) (any, error)

// MemoryReader is the read-only slice of working memory visible to
// transform functions.
type MemoryReader interface {
	Get(key string) any
	Has(key string) bool
	Keys() []string
}

// IsEnabled reports whether the node participates in execution.
func (c Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// EffectiveTemperature returns the configured temperature or def.
func (c Config) EffectiveTemperature(def float64) float64 {
	if c.Temperature != nil {
		return *c.Temperature
	}
	return def
}

// EffectiveMaxTokens returns the configured token limit or def.
func (c Config) EffectiveMaxTokens(def int) int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return def
}

// Node is one agent node of the graph.
type Node struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Config Config `json:"agentConfig"`
}

// Edge is a canonical, type-resolved edge.
type Edge struct {
	ID            string   `json:"id"`
	SourceID      string   `json:"sourceId"`
	DestinationID string   `json:"destinationId"`
	Type          EdgeType `json:"type"`
}

// Graph is the canonical, read-only structure traversal runs on.
type Graph struct {
	nodes    []Node
	edges    []Edge
	byID     map[string]int
	outgoing map[string][]Edge
}

// NewGraph builds a Graph from already-canonical nodes and edges.
func NewGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:    nodes,
		edges:    edges,
		byID:     make(map[string]int, len(nodes)),
		outgoing: make(map[string][]Edge, len(nodes)),
	}
	for i, n := range nodes {
		g.byID[n.ID] = i
	}
	for _, e := range edges {
		g.outgoing[e.SourceID] = append(g.outgoing[e.SourceID], e)
	}
	return g
}

// Nodes returns the node list in canonical order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns every canonical edge.
func (g *Graph) Edges() []Edge { return g.edges }

// Node looks a node up by id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Outgoing returns the edges whose source is id, in input order.
func (g *Graph) Outgoing(id string) []Edge { return g.outgoing[id] }
