// Package process provides the stochastic interval generators that drive
// the simulation: inter-arrival times for the producer, admission pacing
// for the dispatcher, and completion pacing for the consumer.
package process

import (
	"fmt"
	"math/rand"
	"strings"
)

// Process generates successive time intervals in microseconds.
type Process interface {
	// Get returns the next interval. Always positive. Stochastic
	// implementations advance their RNG state on every call.
	Get() float64
}

// Process kind names accepted by New.
const (
	Uniform      = "uniform"
	Poisson      = "poisson"
	ExpDelay     = "exp-delay"
	CappedJitter = "capped-jitter"
)

// Kinds returns the valid process kind names.
func Kinds() []string {
	return []string{Uniform, Poisson, ExpDelay, CappedJitter}
}

// Valid reports whether kind names a known process.
func Valid(kind string) bool {
	switch kind {
	case Uniform, Poisson, ExpDelay, CappedJitter:
		return true
	}
	return false
}

// UniformProcess always returns its configured period.
type UniformProcess struct {
	period float64
}

func (p *UniformProcess) Get() float64 {
	return p.period
}

// PoissonProcess returns exponentially-distributed intervals with the
// configured mean, modeling a Poisson event stream.
type PoissonProcess struct {
	mean float64
	rng  *rand.Rand
}

func (p *PoissonProcess) Get() float64 {
	return p.rng.ExpFloat64() * p.mean
}

// ExpDelayProcess returns base * (1 + Exp(1)): the base interval plus
// unbounded exponential jitter. Every interval is at least the base.
type ExpDelayProcess struct {
	base float64
	rng  *rand.Rand
}

func (p *ExpDelayProcess) Get() float64 {
	return p.base * (1.0 + p.rng.ExpFloat64())
}

// CappedJitterProcess returns base * U(1, cap): uniform jitter bounded by
// a multiplier of the base interval.
type CappedJitterProcess struct {
	base float64
	cap  float64
	rng  *rand.Rand
}

func (p *CappedJitterProcess) Get() float64 {
	return p.base * (1.0 + p.rng.Float64()*(p.cap-1.0))
}

// New creates a Process by kind name. period is the base interval in
// microseconds and must be positive. capFactor bounds the jitter of the
// capped-jitter kind and must exceed 1 for it; other kinds ignore it.
// rng drives the stochastic kinds; the uniform kind never touches it.
func New(kind string, period float64, capFactor float64, rng *rand.Rand) (Process, error) {
	if period <= 0 {
		return nil, fmt.Errorf("process period must be positive, got %v", period)
	}
	switch kind {
	case Uniform:
		return &UniformProcess{period: period}, nil
	case Poisson:
		return &PoissonProcess{mean: period, rng: rng}, nil
	case ExpDelay:
		return &ExpDelayProcess{base: period, rng: rng}, nil
	case CappedJitter:
		if capFactor <= 1.0 {
			return nil, fmt.Errorf("capped-jitter cap factor must exceed 1, got %v", capFactor)
		}
		return &CappedJitterProcess{base: period, cap: capFactor, rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown process %q; valid: %s", kind, strings.Join(Kinds(), ", "))
	}
}
