package sim

import (
	"fmt"
	"math/rand"

	"github.com/pipeline-sim/pipeline-sim/sim/process"
)

// Consumer models a single-server FIFO service stage. Departure timing is
// driven by the consumer's own pacing process: completion slots fire at
// process-generated intervals, and whichever request is at the head when a
// slot fires is completed. Individual requests carry no sampled service
// time of their own; only the cadence of completions is modeled.
type Consumer struct {
	lat       float64 // base per-request service latency in microseconds
	pace      process.Process
	executing requestFIFO
	next      float64 // next completion epoch in microseconds
	processed uint64
	st        *Collector
}

// NewConsumer creates a Consumer serving rate requests per second, with
// completion pacing drawn from the named process. capFactor parameterizes
// the capped-jitter kind; rng drives the stochastic kinds.
func NewConsumer(rate float64, kind string, capFactor float64, rng *rand.Rand, st *Collector) (*Consumer, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("consumer rate must be positive, got %v", rate)
	}
	lat := 1e6 / rate
	pace, err := process.New(kind, lat, capFactor, rng)
	if err != nil {
		return nil, fmt.Errorf("consumer pacing: %w", err)
	}
	return &Consumer{lat: lat, pace: pace, st: st}, nil
}

// Execute appends a request to the in-service sequence. The first request
// into an idle server schedules the next completion slot.
func (c *Consumer) Execute(now int64, rq Request) {
	if c.executing.Len() == 0 {
		c.next = float64(now) + c.pace.Get()
	}
	c.executing.Push(rq)
}

// Tick completes every request whose slot is due at or before now. A single
// tick can retire several requests when completion intervals are shorter
// than the quantum; due completions are never skipped.
func (c *Consumer) Tick(now int64) {
	for c.executing.Len() > 0 && float64(now) >= c.next {
		rq, _ := c.executing.Pop()
		c.st.Collect(float64(now-rq.Start), float64(now-rq.Dispatch))
		c.processed++
		c.next += c.pace.Get()
	}
}

// Latency returns the base per-request service latency in microseconds.
func (c *Consumer) Latency() float64 {
	return c.lat
}

// Executing returns the current in-service count.
func (c *Consumer) Executing() int {
	return c.executing.Len()
}

// Processed returns the cumulative number of completed requests.
func (c *Consumer) Processed() uint64 {
	return c.processed
}
