// Package harness implements a concurrent correctness-and-throughput
// test rig for a SPARQL Protocol endpoint.
//
// # Overview
//
// The harness drives a SPARQL store through three kinds of worker:
//
//   - writers replay a scripted sequence of mutations and, after each
//     one, run recorded verification queries to confirm the store's
//     state matches what was captured when the script was recorded;
//   - readers repeatedly issue SELECT queries against the store and
//     measure throughput;
//   - an optional fault injector kills and restarts the store at a
//     fixed interval while writers and readers are running, to
//     exercise their recovery paths.
//
// A Supervisor owns one run end to end: it builds the configured
// fleets, rendezvouses them so they all begin together, drives the run
// to completion, and reports an aggregated Result.
//
// # Two Modes
//
// A Config with a non-empty Writers list runs in verify mode: the run
// ends once every writer has replayed its entire script, successfully
// or not. A Config with no writers runs in stress mode: only readers
// (and, optionally, the fault injector) run, bounded by Duration.
//
// # Error Taxonomy
//
// Every terminal worker failure wraps exactly one sentinel error
// (ErrInvalidState, ErrUpdateFailed, ErrUpdateVerifyFailed,
// ErrReadFailed, ErrKillFailed, ErrRestartFailed), so callers can
// classify a Result's error with errors.Is without inspecting payload
// fields. A transport-level failure is retried indefinitely under
// WorkerBehavior IgnoreConnectionError; a protocol-level failure (a
// non-2xx response) is always terminal.
//
// # Packages
//
// script parses and models operation scripts from disk. query
// generates and measures reader queries. canon canonicalizes N-Triples
// responses for state comparison. internal holds lifecycle plumbing
// (worker fan-out, periodic tasks, completion signaling) shared across
// the package.
package harness
