package sim

import (
	"fmt"
	"math/rand"

	"github.com/pipeline-sim/pipeline-sim/sim/process"
)

// Producer generates request arrivals and pushes them into the dispatcher
// backlog.
type Producer struct {
	pace      process.Process
	disp      *Dispatcher
	next      float64 // next arrival epoch in microseconds
	generated uint64
}

// NewProducer creates a Producer arriving at rate requests per second with
// inter-arrival times drawn from the named process.
func NewProducer(rate float64, kind string, capFactor float64, rng *rand.Rand, disp *Dispatcher) (*Producer, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("producer rate must be positive, got %v", rate)
	}
	pace, err := process.New(kind, 1e6/rate, capFactor, rng)
	if err != nil {
		return nil, fmt.Errorf("producer arrivals: %w", err)
	}
	return &Producer{pace: pace, disp: disp}, nil
}

// Tick emits every arrival due at or before now. A single tick can emit
// several requests when inter-arrival intervals are shorter than the
// quantum; no arrival is ever dropped.
func (p *Producer) Tick(now int64) {
	for float64(now) >= p.next {
		p.next += p.pace.Get()
		p.disp.Queue(Request{Start: now})
		p.generated++
	}
}

// Generated returns the cumulative number of created requests.
func (p *Producer) Generated() uint64 {
	return p.generated
}
