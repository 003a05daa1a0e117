// Streaming latency statistics for completed requests. Memory stays fixed
// no matter how many samples are collected: quantiles come from a t-digest,
// not from retained samples.

package sim

import "github.com/influxdata/tdigest"

// Accumulator is a single-pass summary of an unbounded sample stream:
// running count, mean, max, and approximate quantiles.
type Accumulator struct {
	digest *tdigest.TDigest
	count  uint64
	sum    float64
	max    float64
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{digest: tdigest.NewWithCompression(100)}
}

// Add records one sample. Never fails.
func (a *Accumulator) Add(v float64) {
	if a.count == 0 || v > a.max {
		a.max = v
	}
	a.count++
	a.sum += v
	a.digest.Add(v, 1)
}

// Count returns the number of samples recorded.
func (a *Accumulator) Count() uint64 {
	return a.count
}

// Mean returns the running mean, or 0 before any sample.
func (a *Accumulator) Mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Max returns the largest sample seen, or 0 before any sample.
func (a *Accumulator) Max() float64 {
	return a.max
}

// Quantile returns the approximate p-quantile (p in [0, 1]), or 0 before
// any sample. The estimate is clamped to the observed max so the tail
// never reads above the largest sample.
func (a *Accumulator) Quantile(p float64) float64 {
	if a.count == 0 {
		return 0
	}
	q := a.digest.Quantile(p)
	if q > a.max {
		return a.max
	}
	return q
}

// Collector records latencies of completed requests. Total latency is
// completion minus arrival; execution latency is completion minus
// dispatch, excluding time spent in the dispatcher backlog.
type Collector struct {
	total *Accumulator
	exec  *Accumulator
}

// NewCollector creates a Collector with empty accumulators.
func NewCollector() *Collector {
	return &Collector{
		total: NewAccumulator(),
		exec:  NewAccumulator(),
	}
}

// Collect records one completed request's latencies in microseconds.
func (c *Collector) Collect(total, exec float64) {
	c.total.Add(total)
	c.exec.Add(exec)
}

// Total returns the total-latency accumulator.
func (c *Collector) Total() *Accumulator {
	return c.total
}

// Execution returns the execution-latency accumulator.
func (c *Collector) Execution() *Accumulator {
	return c.exec
}
