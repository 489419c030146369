package query_test

import (
	"testing"
	"time"

	"github.com/dice-group/sparql-transactional-test/query"
)

func TestReduceDurationAveraged(t *testing.T) {
	b := query.NewLatencyBucket()
	b.Record(0, 100*time.Millisecond)
	b.Record(0, 300*time.Millisecond)

	qps := b.Reduce()
	// 2 samples over 0.4s total => 5 qps
	if got := qps[0]; got < 4.99 || got > 5.01 {
		t.Fatalf("expected ~5 qps, got %f", got)
	}
}

func TestReduceSampleAveraged(t *testing.T) {
	b := query.NewLatencyBucket()
	b.Record(0, 100*time.Millisecond) // 10 qps
	b.Record(0, 1*time.Second)        // 1 qps

	qps := b.ReduceSampleAveraged()
	// mean(10, 1) = 5.5
	if got := qps[0]; got < 5.49 || got > 5.51 {
		t.Fatalf("expected ~5.5 qps, got %f", got)
	}
}

func TestQPSMapAverage(t *testing.T) {
	m := query.QPSMap{0: 10, 1: 20, 2: 30}
	if got := m.Average(); got != 20 {
		t.Fatalf("expected average 20, got %f", got)
	}
	empty := query.QPSMap{}
	if got := empty.Average(); got != 0 {
		t.Fatalf("expected 0 for empty map, got %f", got)
	}
}
