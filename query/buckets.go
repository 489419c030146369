package query

import "time"

// QPSMap reports queries-per-second per stable query index.
type QPSMap map[int]float64

// LatencyBucket accumulates per-query request durations for a single
// reader worker. Only requests whose full response body was read
// contribute a sample (spec.md §3).
type LatencyBucket struct {
	durations map[int][]time.Duration
}

// NewLatencyBucket returns an empty bucket.
func NewLatencyBucket() *LatencyBucket {
	return &LatencyBucket{durations: make(map[int][]time.Duration)}
}

func appendTo[K comparable, V any](m map[K][]V, k K, v V) {
	m[k] = append(m[k], v)
}

// Record adds one completed request's duration under idx.
func (b *LatencyBucket) Record(idx int, d time.Duration) {
	appendTo(b.durations, idx, d)
}

// Reduce computes duration-averaged QPS per bucket: for samples
// d_1..d_n, qps = n / Σd_i. This is the QPS definition spec.md settles
// on (averaging durations before inverting), since inverting each
// sample first and then averaging amplifies tail outliers.
func (b *LatencyBucket) Reduce() QPSMap {
	ret := make(QPSMap, len(b.durations))
	for idx, durations := range b.durations {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		if total <= 0 {
			continue
		}
		ret[idx] = float64(len(durations)) / total.Seconds()
	}
	return ret
}

// ReduceSampleAveraged computes the alternate "IGUANA AvgQPS" metric
// named in spec.md's Open Questions: the mean of each sample's own
// 1/d, rather than the duration-averaged figure Reduce returns. It is
// provided alongside Reduce rather than in place of it.
func (b *LatencyBucket) ReduceSampleAveraged() QPSMap {
	ret := make(QPSMap, len(b.durations))
	for idx, durations := range b.durations {
		if len(durations) == 0 {
			continue
		}
		var sum float64
		for _, d := range durations {
			if d <= 0 {
				continue
			}
			sum += 1 / d.Seconds()
		}
		ret[idx] = sum / float64(len(durations))
	}
	return ret
}

// Average returns the mean QPS across all buckets in m, or 0 if m is
// empty.
func (m QPSMap) Average() float64 {
	if len(m) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m))
}
