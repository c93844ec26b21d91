// Package graph defines the agent graph model the engine traverses: agent
// nodes with a per-node behavior configuration, typed edges drawn from a
// closed semantic vocabulary, and the normalization of the two accepted
// input shapes (a plain node/edge list, or a graph-store export with node
// prototypes and graph edges) into one canonical Graph.
//
// Normalization happens exactly once, at construction; traversal never
// re-inspects the input shape.
package graph
