// Package eventbus implements the minimal publish/subscribe layer the
// execution engine is built on. Handlers are invoked synchronously in
// subscription order; a panicking handler is isolated so it cannot block
// delivery to the remaining handlers. Every emit is appended to a bounded
// FIFO history buffer that can be inspected after a run.
//
// The bus is safe for concurrent use. Handlers run outside the internal
// lock, so a handler may subscribe, emit or mutate stores that themselves
// emit without deadlocking.
package eventbus
