package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pipeline-sim/pipeline-sim/sim"
)

var (
	// CLI flags for the simulation run
	configPath  string  // Optional YAML config file; flags overlay its values
	outputPath  string  // Optional path to write results as YAML
	logLevel    string  // Log verbosity level
	durationSec int64   // Total simulated duration in seconds
	seed        int64   // Seed for the stochastic processes
	capFactor   float64 // Jitter bound for capped-jitter processes

	producerProcess   string  // Arrival process kind
	producerRate      float64 // Arrivals per second
	dispatcherProcess string  // Admission pacing process kind
	latencyGoal       float64 // Target latency in microseconds
	goalFactor        float64 // Headroom factor above the Little's-law bound
	consumerProcess   string  // Completion pacing process kind
	consumerRate      float64 // Service completions per second
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "pipeline-sim",
	Short: "Simulator for latency-goal admission control in a producer/dispatcher/consumer pipeline",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := composeConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation: %ds, producer %s %g/s, dispatcher %s goal %gus factor %g, consumer %s %g/s, seed %d",
			cfg.DurationSec, cfg.Producer.Process, cfg.Producer.Rate,
			cfg.Dispatcher.Process, cfg.Dispatcher.LatencyGoal, cfg.Dispatcher.GoalFactor,
			cfg.Consumer.Process, cfg.Consumer.Rate, cfg.Seed)

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		results := s.Run()
		results.Print()

		if outputPath != "" {
			if err := results.WriteYAML(outputPath); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Results written to %s", outputPath)
		}
	},
}

// composeConfig starts from defaults, overlays the YAML file when one is
// given, then overlays any flag set explicitly on the command line.
func composeConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return sim.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		cfg.DurationSec = durationSec
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("cap-factor") {
		cfg.CapFactor = capFactor
	}
	if flags.Changed("producer-process") {
		cfg.Producer.Process = producerProcess
	}
	if flags.Changed("producer-rate") {
		cfg.Producer.Rate = producerRate
	}
	if flags.Changed("dispatcher-process") {
		cfg.Dispatcher.Process = dispatcherProcess
	}
	if flags.Changed("latency-goal") {
		cfg.Dispatcher.LatencyGoal = latencyGoal
	}
	if flags.Changed("goal-factor") {
		cfg.Dispatcher.GoalFactor = goalFactor
	}
	if flags.Changed("consumer-process") {
		cfg.Consumer.Process = consumerProcess
	}
	if flags.Changed("consumer-rate") {
		cfg.Consumer.Rate = consumerRate
	}
	return cfg, cfg.Validate()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags()
	rootCmd.AddCommand(runCmd)
}

// registerRunFlags binds the run command's flags to their variables. Split
// out of init so tests can rebuild a pristine flag set after mutating it.
func registerRunFlags() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (flags override its values)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write results as YAML to this path")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&durationSec, "duration", 1, "Simulated duration in seconds")
	runCmd.Flags().Int64Var(&seed, "seed", sim.DefaultSeed, "Seed for the stochastic processes")
	runCmd.Flags().Float64Var(&capFactor, "cap-factor", sim.DefaultCapFactor, "Jitter bound for capped-jitter processes")

	runCmd.Flags().StringVar(&producerProcess, "producer-process", "uniform", "Arrival process (uniform, poisson, exp-delay, capped-jitter)")
	runCmd.Flags().Float64Var(&producerRate, "producer-rate", 3000, "Arrivals per second")
	runCmd.Flags().StringVar(&dispatcherProcess, "dispatcher-process", "uniform", "Admission pacing process")
	runCmd.Flags().Float64Var(&latencyGoal, "latency-goal", sim.DefaultLatencyGoal, "Target latency in microseconds")
	runCmd.Flags().Float64Var(&goalFactor, "goal-factor", sim.DefaultGoalFactor, "Headroom factor above the strict concurrency bound")
	runCmd.Flags().StringVar(&consumerProcess, "consumer-process", "uniform", "Completion pacing process")
	runCmd.Flags().Float64Var(&consumerRate, "consumer-rate", 4000, "Service completions per second")
}
