package graph

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// RawEdge is an edge as supplied by either input shape, before type
// resolution.
type RawEdge struct {
	ID            string `json:"id"`
	SourceID      string `json:"sourceId"`
	DestinationID string `json:"destinationId"`

	// Type and Name carry the edge's own type label when present.
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`

	// TypeNodeID references the defining prototype in the graph-store
	// shape; it wins over Type/Name when it resolves.
	TypeNodeID string `json:"typeNodeId,omitempty"`
}

// EdgePrototype is the defining node of an edge type in the graph-store
// shape; its name is the edge type label.
type EdgePrototype struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NodeSet holds agent nodes supplied either as an array or as an id-keyed
// map. Map input is ordered by key so normalization is deterministic.
type NodeSet struct {
	nodes []Node
}

// NewNodeSet builds a NodeSet from a node list.
func NewNodeSet(nodes ...Node) NodeSet {
	return NodeSet{nodes: nodes}
}

// NewNodeSetFromMap builds a NodeSet from an id-keyed map. A node with an
// empty ID inherits its map key.
func NewNodeSetFromMap(m map[string]Node) NodeSet {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	nodes := make([]Node, 0, len(m))
	for _, k := range keys {
		n := m[k]
		if n.ID == "" {
			n.ID = k
		}
		nodes = append(nodes, n)
	}
	return NodeSet{nodes: nodes}
}

// Nodes returns the contained nodes in canonical order.
func (s NodeSet) Nodes() []Node { return s.nodes }

// Len reports the number of contained nodes.
func (s NodeSet) Len() int { return len(s.nodes) }

// UnmarshalJSON accepts either a JSON array of nodes or an id-keyed object.
func (s *NodeSet) UnmarshalJSON(data []byte) error {
	var asList []Node
	if err := json.Unmarshal(data, &asList); err == nil {
		s.nodes = asList
		return nil
	}
	var asMap map[string]Node
	if err := json.Unmarshal(data, &asMap); err != nil {
		return fmt.Errorf("nodePrototypes must be an array or an object of nodes: %w", err)
	}
	*s = NewNodeSetFromMap(asMap)
	return nil
}

// MarshalJSON renders the set as a node array.
func (s NodeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.nodes)
}

// Definition is the union of the two accepted graph input shapes:
//
//	{nodes: [...], edges: [...]}
//	{nodePrototypes: map|array, graphEdges: [...], edgePrototypes: {...}}
//
// Populate one shape or the other; when both are present the node/edge
// lists are concatenated with the plain shape first.
type Definition struct {
	Nodes []Node    `json:"nodes,omitempty"`
	Edges []RawEdge `json:"edges,omitempty"`

	NodePrototypes NodeSet                  `json:"nodePrototypes,omitempty"`
	GraphEdges     []RawEdge                `json:"graphEdges,omitempty"`
	EdgePrototypes map[string]EdgePrototype `json:"edgePrototypes,omitempty"`
}

// ParseDefinition decodes a serialized graph definition.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse graph definition: %w", err)
	}
	return def, nil
}

// Normalize resolves the definition into the canonical Graph: one node
// list, one edge list, every edge type resolved. Resolution order per edge:
// the defining prototype's name (via TypeNodeID), then the edge's own Name,
// then its Type field, then the Connection default.
func (d Definition) Normalize() *Graph {
	nodes := make([]Node, 0, len(d.Nodes)+d.NodePrototypes.Len())
	nodes = append(nodes, d.Nodes...)
	nodes = append(nodes, d.NodePrototypes.Nodes()...)

	raw := make([]RawEdge, 0, len(d.Edges)+len(d.GraphEdges))
	raw = append(raw, d.Edges...)
	raw = append(raw, d.GraphEdges...)

	edges := make([]Edge, 0, len(raw))
	for _, re := range raw {
		edges = append(edges, Edge{
			ID:            re.ID,
			SourceID:      re.SourceID,
			DestinationID: re.DestinationID,
			Type:          d.resolveEdgeType(re),
		})
	}
	return NewGraph(nodes, edges)
}

func (d Definition) resolveEdgeType(re RawEdge) EdgeType {
	if re.TypeNodeID != "" {
		if proto, ok := d.EdgePrototypes[re.TypeNodeID]; ok && proto.Name != "" {
			t, _ := ParseEdgeType(proto.Name)
			return t
		}
	}
	if re.Name != "" {
		t, _ := ParseEdgeType(re.Name)
		return t
	}
	if re.Type != "" {
		t, _ := ParseEdgeType(re.Type)
		return t
	}
	return EdgeConnection
}
