// Package runner implements the six node behavior strategies the executor
// dispatches to: Executor, Router, Validator, Transformer, Aggregator and
// Sensor. Every strategy is a pure function of (node config, input, working
// memory, LLM caller); an unrecognized node type degrades to an identity
// pass-through.
//
// LLM-backed strategies never fail on malformed structured output: the
// Executor falls back to the raw text, the Router to the default route and
// the Validator to a permissive valid result. Only transport-level call
// failures surface as errors.
package runner
