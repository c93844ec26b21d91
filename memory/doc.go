// Package memory implements the shared working memory of one execution
// session: a key/value store with per-key monotonic versioning, built on top
// of an eventbus.Bus so every mutation is observable. Node inputs, outputs
// and sensor observations are stored under namespaced keys of the form
// "{nodeName}.input", "{nodeName}.output" and "{nodeName}.observation".
//
// Writes are last-writer-wins per key; the version counter is the only
// merge signal offered to concurrent writers. Events are emitted after the
// internal lock is released, so handlers are free to read or write the
// store again.
package memory
