package harness

import (
	"time"

	"github.com/dice-group/sparql-transactional-test/script"
)

// WorkerBehavior governs how a worker reacts to a transport-level
// (connection) failure, as opposed to a protocol-level (non-2xx)
// failure, which is always fatal regardless of behavior.
type WorkerBehavior int

const (
	// IgnoreConnectionError retries the current step immediately on a
	// transient transport error, with no backoff. This is the mode
	// used when a fault injector is concurrently killing and
	// restarting the server: the kill_delay already spaces retries.
	IgnoreConnectionError WorkerBehavior = iota

	// ReportConnectionError treats any transport error the same as a
	// protocol error: fatal for the worker that observed it.
	ReportConnectionError
)

func (b WorkerBehavior) String() string {
	if b == ReportConnectionError {
		return "ReportConnectionError"
	}
	return "IgnoreConnectionError"
}

// Endpoints holds the three HTTP URLs the harness speaks to. The store
// itself is treated as an opaque black box; the harness only assumes
// these three URLs exist and behave per spec.md §6.
type Endpoints struct {
	QueryEndpoint  string
	UpdateEndpoint string
	GSPEndpoint    string
}

// DurabilityConfig configures the optional fault injector. A nil
// *DurabilityConfig on Config means no fault injection runs.
type DurabilityConfig struct {
	StartScript   string
	KillScript    string
	RestartScript string
	KillDelay     time.Duration
}

// Config is the supervisor's entire input contract. It is built by the
// CLI layer (cmd/sparqltest); the core never parses flags or files.
type Config struct {
	Endpoints Endpoints

	// Writers is the ordered set of per-writer operation scripts. An
	// empty slice means stress mode (no verification, readers only).
	Writers []script.OperationScript

	// Readers is the number of reader workers to launch.
	Readers int
	// ReaderQueryFile, if non-empty, selects the file-backed query
	// generator; otherwise readers use the synthetic generator.
	ReaderQueryFile string

	// Behavior governs writer and reader retry/fail semantics for
	// transport-level errors.
	Behavior WorkerBehavior

	// Duration bounds a stress run (Writers empty) with a wall-clock
	// timer; ignored in verify mode, where shutdown instead waits for
	// every writer to finish.
	Duration time.Duration

	// Durability enables the fault injector when non-nil.
	Durability *DurabilityConfig

	// Verbose attaches diff/body payloads to terminal errors.
	Verbose bool

	// ShutdownGrace bounds how long the supervisor waits for readers
	// and the fault injector to return after cancellation before
	// giving up and reporting ErrShutdownTimeout.
	ShutdownGrace time.Duration
}
