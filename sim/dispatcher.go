package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/pipeline-sim/pipeline-sim/sim/process"
)

// Dispatcher gates admission into the Consumer. It holds a FIFO backlog of
// not-yet-admitted requests and enforces a fixed concurrency limit derived
// once from the latency goal: by Little's law, keeping at most
// goal * goalFactor / serviceLatency requests in service holds mean latency
// near the goal at the configured service rate.
type Dispatcher struct {
	pace       process.Process
	next       float64 // next admission-attempt epoch in microseconds
	cons       *Consumer
	backlog    requestFIFO
	dispatched uint64
	limit      int
}

// NewDispatcher creates a Dispatcher targeting a latency goal in
// microseconds, pacing its admission attempts with the named process at the
// goal interval. Construction fails when the computed concurrency limit is
// zero: the consumer is too slow, or the goal too tight, to admit even one
// request, and no degraded behavior is defined.
func NewDispatcher(goal float64, goalFactor float64, cons *Consumer, kind string, capFactor float64, rng *rand.Rand) (*Dispatcher, error) {
	if goal <= 0 {
		return nil, fmt.Errorf("latency goal must be positive, got %v", goal)
	}
	if goalFactor <= 0 {
		return nil, fmt.Errorf("goal factor must be positive, got %v", goalFactor)
	}
	pace, err := process.New(kind, goal, capFactor, rng)
	if err != nil {
		return nil, fmt.Errorf("dispatcher pacing: %w", err)
	}
	limit := int(goal * goalFactor / cons.Latency())
	logrus.Debugf("dispatcher concurrency limit: %d requests", limit)
	if limit == 0 {
		return nil, fmt.Errorf("concurrency limit is zero: latency goal %vus with factor %v cannot cover one service interval of %vus", goal, goalFactor, cons.Latency())
	}
	return &Dispatcher{pace: pace, cons: cons, limit: limit}, nil
}

// Queue appends a request to the backlog tail. Never fails, never blocks.
func (d *Dispatcher) Queue(rq Request) {
	d.backlog.Push(rq)
}

// Tick attempts admission when the pacing epoch is due, then admits backlog
// heads into the consumer until the backlog empties or the in-service count
// reaches the concurrency limit. Admitted requests are stamped with their
// dispatch time.
func (d *Dispatcher) Tick(now int64) {
	if float64(now) < d.next {
		return
	}
	d.next += d.pace.Get()

	for d.backlog.Len() > 0 && d.cons.Executing() < d.limit {
		rq, _ := d.backlog.Pop()
		rq.Dispatch = now
		d.cons.Execute(now, rq)
		d.dispatched++
	}
}

// Limit returns the concurrency limit computed at construction.
func (d *Dispatcher) Limit() int {
	return d.limit
}

// Queued returns the current backlog depth.
func (d *Dispatcher) Queued() int {
	return d.backlog.Len()
}

// Dispatched returns the cumulative number of admitted requests.
func (d *Dispatcher) Dispatched() uint64 {
	return d.dispatched
}
