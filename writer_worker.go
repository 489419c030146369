package harness

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dice-group/sparql-transactional-test/canon"
	"github.com/dice-group/sparql-transactional-test/script"
)

// WriterResult is one writer's report: nil Err means every operation
// in its script was issued, verified and matched in order.
type WriterResult struct {
	Err error
}

// runWriter replays scr strictly in order, running the Issue -> Verify
// -> Compare -> Advance state machine (spec.md §4.3) for each
// operation. It returns as soon as one operation fails terminally, or
// once the script is exhausted.
func runWriter(ctx context.Context, client *Client, eps Endpoints, scr script.OperationScript, behavior WorkerBehavior, verbose bool, log *slog.Logger) WriterResult {
	for _, op := range scr.Operations {
		if err := issueOperation(ctx, client, eps, op, behavior, verbose); err != nil {
			if ctx.Err() != nil {
				return WriterResult{}
			}
			return WriterResult{Err: err}
		}
		bodies, err := runVerification(ctx, client, eps.QueryEndpoint, op, behavior)
		if err != nil {
			if ctx.Err() != nil {
				return WriterResult{}
			}
			return WriterResult{Err: &UpdateVerifyFailedError{
				OperationID: op.Id,
				Subject:     subjectOf(op),
				Cause:       err,
			}}
		}
		if err := compareStates(op, bodies, verbose); err != nil {
			log.Error("state mismatch", "operation", op.Id, "err", err)
			return WriterResult{Err: err}
		}
	}
	return WriterResult{}
}

func subjectOf(op script.Operation) string {
	if len(op.Verification.Queries) == 0 {
		return ""
	}
	return op.Verification.Queries[0].Query
}

// issueOperation sends op.Mutation, retrying immediately and
// indefinitely on a transient transport error when behavior is
// IgnoreConnectionError. A retry resends the mutation in full: spec.md
// requires mutations to be idempotent with respect to their recorded
// expectation, so resending after a partial earlier attempt is safe.
func issueOperation(ctx context.Context, client *Client, eps Endpoints, op script.Operation, behavior WorkerBehavior, verbose bool) error {
	for {
		err := client.IssueMutation(ctx, eps, op.Mutation)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isTransient(err) && behavior == IgnoreConnectionError {
			continue
		}
		body := ""
		if verbose {
			body = op.Mutation.Body
		}
		return &UpdateFailedError{OperationID: op.Id, Body: body, Verbose: verbose, Cause: err}
	}
}

type queryOutcome struct {
	body string
	err  error
}

// runVerification runs every verification query in op concurrently —
// never serialized — and joins on all of them. If any query fails
// transiently under IgnoreConnectionError, the whole verification
// retries from scratch; a protocol error, or a transient error under
// ReportConnectionError, fails the operation immediately.
func runVerification(ctx context.Context, client *Client, queryEndpoint string, op script.Operation, behavior WorkerBehavior) ([]string, error) {
	n := len(op.Verification.Queries)
	if n == 0 {
		return nil, nil
	}
	for {
		results := make([]queryOutcome, n)
		var wg sync.WaitGroup
		wg.Add(n)
		for i, qe := range op.Verification.Queries {
			go func(i int, q string) {
				defer wg.Done()
				body, err := client.Query(ctx, queryEndpoint, q, "application/n-triples")
				results[i] = queryOutcome{body: body, err: err}
			}(i, qe.Query)
		}
		wg.Wait()

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		retry := false
		for _, r := range results {
			if r.err == nil {
				continue
			}
			if !isTransient(r.err) || behavior == ReportConnectionError {
				return nil, r.err
			}
			retry = true
		}
		if retry {
			continue
		}

		bodies := make([]string, n)
		for i, r := range results {
			bodies[i] = r.body
		}
		return bodies, nil
	}
}

// compareStates canonicalizes each observed body and compares it
// against its recorded expectation. All pairs must match; the first
// mismatch found is reported.
func compareStates(op script.Operation, bodies []string, verbose bool) error {
	for i, qe := range op.Verification.Queries {
		actual := canon.Canonicalize(bodies[i])
		if actual.Equal(qe.Expected) {
			continue
		}
		mutation := ""
		if verbose {
			mutation = op.Mutation.Body
		}
		return &InvalidStateError{
			OperationID: op.Id,
			Mutation:    mutation,
			Expected:    qe.Expected,
			Actual:      actual,
			Verbose:     verbose,
		}
	}
	return nil
}

// isTransient reports whether err is a transport-level failure (as
// opposed to a protocol-level non-2xx response, which is always
// fatal).
func isTransient(err error) bool {
	var protoErr *ProtocolError
	return !errors.As(err, &protoErr)
}
