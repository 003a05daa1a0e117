// Package sim simulates a latency-goal-driven admission-control policy for
// a three-stage request pipeline: a Producer generates arrivals, a
// Dispatcher admits them into a single-server Consumer up to a concurrency
// limit derived from a target latency goal, and a Collector streams latency
// statistics of completed requests.
//
// The Simulator advances virtual time by a fixed one-microsecond quantum
// and ticks the stages in the fixed order consumer, producer, dispatcher.
// Runs are single-threaded and, for a fixed seed and configuration,
// bit-for-bit reproducible.
//
// Interval timing is pluggable: sim/process provides the uniform, poisson,
// exp-delay, and capped-jitter generators used for arrivals, admission
// pacing, and completion pacing.
package sim
