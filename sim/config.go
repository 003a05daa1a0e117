package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pipeline-sim/pipeline-sim/sim/process"
)

// Defaults. The latency goal and goal factor follow the admission-control
// policy being evaluated; the cap factor is twice the goal factor.
const (
	DefaultLatencyGoal = 500.0 // microseconds
	DefaultGoalFactor  = 1.5
	DefaultCapFactor   = DefaultGoalFactor * 2.0
	DefaultSeed        = 42
)

// ProducerConfig selects the arrival process and rate.
type ProducerConfig struct {
	Process string  `yaml:"process"` // uniform, poisson, exp-delay, capped-jitter
	Rate    float64 `yaml:"rate"`    // requests per second
}

// DispatcherConfig selects the admission pacing process and the latency
// goal driving the concurrency limit.
type DispatcherConfig struct {
	Process     string  `yaml:"process"`
	LatencyGoal float64 `yaml:"latency_goal_us"` // target latency in microseconds
	GoalFactor  float64 `yaml:"goal_factor"`     // headroom above the strict Little's-law bound
}

// ConsumerConfig selects the completion pacing process and service rate.
type ConsumerConfig struct {
	Process string  `yaml:"process"`
	Rate    float64 `yaml:"rate"` // requests per second
}

// Config is the full simulation configuration. Loadable from YAML via
// LoadConfig; zero-valued fields take defaults.
type Config struct {
	DurationSec int64            `yaml:"duration_sec"` // total simulated duration in seconds
	Seed        int64            `yaml:"seed"`
	CapFactor   float64          `yaml:"cap_factor"` // jitter bound for capped-jitter processes
	Producer    ProducerConfig   `yaml:"producer"`
	Dispatcher  DispatcherConfig `yaml:"dispatcher"`
	Consumer    ConsumerConfig   `yaml:"consumer"`
}

// DefaultConfig returns a runnable baseline: a uniform 3000/s producer
// against a uniform 4000/s consumer for one simulated second. At the
// default 500us goal the 250us service latency yields a limit of 3.
func DefaultConfig() Config {
	return Config{
		DurationSec: 1,
		Seed:        DefaultSeed,
		CapFactor:   DefaultCapFactor,
		Producer: ProducerConfig{
			Process: process.Uniform,
			Rate:    3000,
		},
		Dispatcher: DispatcherConfig{
			Process:     process.Uniform,
			LatencyGoal: DefaultLatencyGoal,
			GoalFactor:  DefaultGoalFactor,
		},
		Consumer: ConsumerConfig{
			Process: process.Uniform,
			Rate:    4000,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults, so a
// partial file only overrides the fields it names.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field the constructors depend on, so a bad
// configuration fails before any simulation state is built.
func (c Config) Validate() error {
	if c.DurationSec < 1 {
		return fmt.Errorf("duration must be at least 1 second, got %d", c.DurationSec)
	}
	if !process.Valid(c.Producer.Process) {
		return fmt.Errorf("producer: unknown process %q", c.Producer.Process)
	}
	if !process.Valid(c.Dispatcher.Process) {
		return fmt.Errorf("dispatcher: unknown process %q", c.Dispatcher.Process)
	}
	if !process.Valid(c.Consumer.Process) {
		return fmt.Errorf("consumer: unknown process %q", c.Consumer.Process)
	}
	if c.Producer.Rate <= 0 {
		return fmt.Errorf("producer rate must be positive, got %v", c.Producer.Rate)
	}
	if c.Consumer.Rate <= 0 {
		return fmt.Errorf("consumer rate must be positive, got %v", c.Consumer.Rate)
	}
	if c.Dispatcher.LatencyGoal <= 0 {
		return fmt.Errorf("latency goal must be positive, got %v", c.Dispatcher.LatencyGoal)
	}
	if c.Dispatcher.GoalFactor <= 0 {
		return fmt.Errorf("goal factor must be positive, got %v", c.Dispatcher.GoalFactor)
	}
	usesCappedJitter := c.Producer.Process == process.CappedJitter ||
		c.Dispatcher.Process == process.CappedJitter ||
		c.Consumer.Process == process.CappedJitter
	if usesCappedJitter && c.CapFactor <= 1 {
		return fmt.Errorf("cap factor must exceed 1, got %v", c.CapFactor)
	}
	return nil
}
