// Package answer implements the structured answer pipeline: a free-text
// query is classified into intents, expanded into an ordered plan of
// generation tasks, each task is resolved against the text-generation
// backend with a retry/fallback policy, and the resulting sections are
// assembled into one headed answer.
//
// Everything here is pure and in-memory except the orchestrator, which is
// the only component that performs network I/O (through a Completer).
// The fixed tables (intent patterns, task templates, section headers and
// orders) are package-level values built once and never mutated, so they
// are safe for unlimited concurrent readers.
package answer
