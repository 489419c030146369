// Package query provides the reader worker's pluggable query source
// and its per-query latency bookkeeping.
//
// A Generator yields the next query a reader should issue. The
// synthetic generator (NewSynthetic) reports no stable identity for
// the queries it returns; the file-backed
// generator (NewFileBacked) holds a fixed catalog and reports a stable
// index so repeated samples of the same query can be grouped for
// throughput reporting.
//
// LatencyBucket accumulates per-query durations and reduces them to a
// queries-per-second map once a reader's measurement loop stops.
package query
