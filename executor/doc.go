// Package executor implements the agent graph execution engine. An
// Executor owns one normalized agent graph, locates the entry point,
// dispatches each node to its behavior strategy and interprets the outgoing
// edges: sequential delegation, dependency-gated execution, fire-and-forget
// triggers, validation gates and error fallback.
//
// Execution is single-threaded-recursive per call chain; the recursion
// depth counter (default 50) is the only guard against cyclic graphs.
// Trigger edges and per-node event subscriptions spawn independent
// invocations on their own goroutines; Wait drains them.
package executor
