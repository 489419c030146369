package harness

import (
	"errors"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Sentinel error kinds. Every terminal error a worker reports wraps
// exactly one of these, so callers can classify failures with
// errors.Is without inspecting payload fields.
var (
	// ErrInvalidState is reported when a writer observes a canonical
	// state that does not match the recorded expectation after a
	// successful mutation.
	ErrInvalidState = errors.New("observed state does not match expectation")

	// ErrUpdateFailed is reported when a mutation did not complete with
	// a 2xx response under the worker's current WorkerBehavior.
	ErrUpdateFailed = errors.New("update did not complete successfully")

	// ErrUpdateVerifyFailed is reported when a writer's verification
	// queries could not be completed under the worker's current
	// WorkerBehavior.
	ErrUpdateVerifyFailed = errors.New("verification queries could not be completed")

	// ErrReadFailed is reported by a reader when a request fails under
	// ReportConnectionError behavior.
	ErrReadFailed = errors.New("reader request failed")

	// ErrKillFailed and ErrRestartFailed are reported by the fault
	// injector when the corresponding script exits non-zero or cannot
	// be started. Both are fatal for the whole run.
	ErrKillFailed    = errors.New("fault injector kill script failed")
	ErrRestartFailed = errors.New("fault injector restart script failed")
)

// InvalidStateError is the terminal error for a writer that observed a
// state mismatch. Expected and Actual are always set; Mutation is only
// populated when the writer runs in verbose mode, and Error renders
// the mutation and the expected/actual diff only when Verbose is true.
type InvalidStateError struct {
	OperationID int
	Mutation    string
	Expected    CanonicalState
	Actual      CanonicalState
	Verbose     bool
}

func (e *InvalidStateError) Error() string {
	if !e.Verbose {
		return fmt.Sprintf("update %d: observed state does not match expectation", e.OperationID)
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(e.Expected.String()),
		B:        difflib.SplitLines(e.Actual.String()),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		diff = "<diff unavailable: " + err.Error() + ">"
	}
	return fmt.Sprintf(
		"update %d: observed state does not match expectation\nmutation:\n%s\ndiff:\n%s",
		e.OperationID, e.Mutation, diff,
	)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// UpdateFailedError is the terminal error for a writer whose mutation
// never completed with a 2xx response. Body is only populated in
// verbose mode.
type UpdateFailedError struct {
	OperationID int
	Body        string
	Verbose     bool
	Cause       error
}

func (e *UpdateFailedError) Error() string {
	if !e.Verbose {
		return fmt.Sprintf("update %d failed: %v", e.OperationID, e.Cause)
	}
	return fmt.Sprintf("update %d failed: %v\nbody:\n%s", e.OperationID, e.Cause, e.Body)
}

func (e *UpdateFailedError) Unwrap() error {
	return errors.Join(ErrUpdateFailed, e.Cause)
}

// UpdateVerifyFailedError is the terminal error for a writer whose
// verification queries could not be completed.
type UpdateVerifyFailedError struct {
	OperationID int
	Subject     string
	Cause       error
}

func (e *UpdateVerifyFailedError) Error() string {
	return fmt.Sprintf("update %d: verification failed for %s: %v", e.OperationID, e.Subject, e.Cause)
}

func (e *UpdateVerifyFailedError) Unwrap() error {
	return errors.Join(ErrUpdateVerifyFailed, e.Cause)
}

// ReadFailedError is the terminal error for a reader running under
// ReportConnectionError behavior.
type ReadFailedError struct {
	Query string
	Cause error
}

func (e *ReadFailedError) Error() string {
	return fmt.Sprintf("read failed: %v\nquery: %s", e.Cause, e.Query)
}

func (e *ReadFailedError) Unwrap() error {
	return errors.Join(ErrReadFailed, e.Cause)
}

// KillFailedError and RestartFailedError report a non-zero exit or
// spawn failure from the fault injector's shell scripts.
type KillFailedError struct{ Cause error }

func (e *KillFailedError) Error() string { return fmt.Sprintf("kill script failed: %v", e.Cause) }
func (e *KillFailedError) Unwrap() error { return errors.Join(ErrKillFailed, e.Cause) }

type RestartFailedError struct{ Cause error }

func (e *RestartFailedError) Error() string {
	return fmt.Sprintf("restart script failed: %v", e.Cause)
}
func (e *RestartFailedError) Unwrap() error { return errors.Join(ErrRestartFailed, e.Cause) }
