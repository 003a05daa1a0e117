package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LatencySummary reports one latency accumulator. All values are in
// microseconds of virtual time; quantiles are streaming estimates.
type LatencySummary struct {
	Count uint64  `yaml:"count"`
	Mean  float64 `yaml:"mean_us"`
	P50   float64 `yaml:"p50_us"`
	P95   float64 `yaml:"p95_us"`
	P99   float64 `yaml:"p99_us"`
	Max   float64 `yaml:"max_us"`
}

func summarize(a *Accumulator) LatencySummary {
	return LatencySummary{
		Count: a.Count(),
		Mean:  a.Mean(),
		P50:   a.Quantile(0.5),
		P95:   a.Quantile(0.95),
		P99:   a.Quantile(0.99),
		Max:   a.Max(),
	}
}

// Results aggregates end-of-run counters and latency summaries.
type Results struct {
	ProducerRate     float64        `yaml:"producer_rate"` // configured, requests per second
	ConsumerRate     float64        `yaml:"consumer_rate"` // configured, requests per second
	ConcurrencyLimit int            `yaml:"concurrency_limit"`
	Generated        uint64         `yaml:"generated"`
	Dispatched       uint64         `yaml:"dispatched"`
	Processed        uint64         `yaml:"processed"`
	MaxQueued        int            `yaml:"max_queued"`    // peak backlog depth observed
	MaxExecuting     int            `yaml:"max_executing"` // peak in-service count observed
	TotalLatency     LatencySummary `yaml:"total_latency"`
	ExecLatency      LatencySummary `yaml:"execution_latency"`
}

// Print displays the aggregated results at the end of the simulation.
func (r Results) Print() {
	fmt.Println("=== Simulation Results ===")
	fmt.Printf("Producer rate        : %.0f req/s\n", r.ProducerRate)
	fmt.Printf("Consumer rate        : %.0f req/s\n", r.ConsumerRate)
	fmt.Printf("Concurrency limit    : %d requests\n", r.ConcurrencyLimit)
	fmt.Printf("Generated            : %d\n", r.Generated)
	fmt.Printf("Dispatched           : %d\n", r.Dispatched)
	fmt.Printf("Processed            : %d\n", r.Processed)
	fmt.Printf("Max backlog depth    : %d\n", r.MaxQueued)
	fmt.Printf("Max in-service       : %d\n", r.MaxExecuting)
	printSummary("Total latency", r.TotalLatency)
	printSummary("Execution latency", r.ExecLatency)
}

func printSummary(name string, s LatencySummary) {
	fmt.Printf("%-21s: n %d  mean %.1fus  p50 %.1fus  p95 %.1fus  p99 %.1fus  max %.1fus\n",
		name, s.Count, s.Mean, s.P50, s.P95, s.P99, s.Max)
}

// WriteYAML writes the results as YAML to the given path.
func (r Results) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
