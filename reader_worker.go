package harness

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dice-group/sparql-transactional-test/query"
)

// ReaderResult is one reader worker's report: its per-query QPS map
// (empty if it used the synthetic generator, since that generator has
// no stable query identity) plus the alternate sample-averaged metric,
// or a terminal error if the reader failed under ReportConnectionError
// behavior.
type ReaderResult struct {
	QPS       query.QPSMap
	SampleQPS query.QPSMap
	Err       error
}

// runReader is the reader's measurement loop (spec.md §4.2): fetch the
// next query, issue GET endpoint?query=<q>, await headers and a full
// body drain, and record the elapsed time under the query's stable
// index if it has one.
//
// Cancellation is threaded through ctx into every request rather than
// raced explicitly against a separate signal: net/http already aborts
// an in-flight Do/body-read as soon as ctx is canceled, which is the
// idiomatic Go equivalent of spec.md's two-await-point race. A request
// that fails because ctx was canceled ends the loop successfully, with
// whatever samples were already recorded intact.
func runReader(ctx context.Context, client *Client, endpoint string, gen query.Generator, behavior WorkerBehavior, log *slog.Logger) ReaderResult {
	bucket := query.NewLatencyBucket()
	for {
		idx, hasIdx, text := gen.Next()
		dur, err := client.TimedQuery(ctx, endpoint, text)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			var protoErr *ProtocolError
			if errors.As(err, &protoErr) {
				return ReaderResult{Err: &ReadFailedError{Query: text, Cause: err}}
			}
			if behavior == ReportConnectionError {
				return ReaderResult{Err: &ReadFailedError{Query: text, Cause: err}}
			}
			log.Debug("reader dropped sample after transient error", "err", err)
			continue
		}
		if hasIdx {
			bucket.Record(idx, dur)
		}
	}
	return ReaderResult{
		QPS:       bucket.Reduce(),
		SampleQPS: bucket.ReduceSampleAveraged(),
	}
}
