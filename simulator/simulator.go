package simulator

import (
	"fmt"
	"slices"
)

// Simulator owns one simulation run: the process registry, its config and
// the latest snapshot. It has no concurrency primitives; the caller (live
// driver, CLI) decides when to Step and guards concurrent access.
type Simulator struct {
	config    SimConfig
	processes []ProcessSpec
	state     *State

	// Event logging callback (optional, for UI/debugging)
	LogEvent func(msg string)
}

// NewSimulator creates a simulator positioned before the first tick
func NewSimulator(processes []ProcessSpec, config SimConfig) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	sim := &Simulator{
		config:    config,
		processes: slices.Clone(processes),
	}
	sim.state = NewState(sim.processes)
	return sim, nil
}

// Reset discards all progress and rebuilds the initial snapshot from the registry
func (s *Simulator) Reset() {
	s.state = NewState(s.processes)
}

// UpdateConfig swaps the registry and configuration, then resets.
func (s *Simulator) UpdateConfig(processes []ProcessSpec, config SimConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	s.config = config
	s.processes = slices.Clone(processes)
	s.Reset()
	return nil
}

// SetSpeed changes the live tick period without touching the run.
func (s *Simulator) SetSpeed(ms int) error {
	cfg := s.config
	cfg.SpeedMs = ms
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.config = cfg
	return nil
}

// SetStatus publishes a snapshot carrying the new status.
func (s *Simulator) SetStatus(status Status) {
	if s.state.Status == status {
		return
	}
	s.state = s.state.withStatus(status)
}

// Step advances the run by one tick. On the tick that completes the last
// process the snapshot is marked finished and its metrics are frozen.
func (s *Simulator) Step() (*State, error) {
	next, err := Step(s.state, s.config.Policy, s.config.Options())
	if err != nil {
		return nil, err
	}

	if next.Running != NoProcess {
		p := next.Processes[next.Running]
		s.logEvent("[t=%d] %s on CPU (remaining=%d, queued=%d)", next.Time, p.Name, p.RemainingTime, next.ReadyQueue.Len())
	} else {
		s.logEvent("[t=%d] CPU idle", next.Time)
	}

	if next.AllFinished() {
		next.Status = StatusFinished
		next.Metrics = CalculateMetrics(next.Processes, next.Time)
		s.logEvent("[t=%d] all %d processes finished (policy=%s)", next.Time, len(next.Processes), s.config.Policy)
	}
	s.state = next
	return next, nil
}

// RunToCompletion steps until every process has finished. It gives up with
// ErrTimeout once simulated time passes maxTicks.
func (s *Simulator) RunToCompletion(maxTicks int) (*State, error) {
	if len(s.processes) == 0 {
		return nil, ErrNoProcesses
	}
	if !s.IsFinished() {
		s.SetStatus(StatusRunning)
	}
	for !s.IsFinished() {
		next, err := s.Step()
		if err != nil {
			return nil, err
		}
		if !next.AllFinished() && next.Time > maxTicks {
			return next, fmt.Errorf("%s after %d ticks: %w", s.config.Policy, next.Time, ErrTimeout)
		}
	}
	return s.state, nil
}

// State returns the latest snapshot
func (s *Simulator) State() *State {
	return s.state
}

// Config returns a copy of the current configuration
func (s *Simulator) Config() SimConfig {
	return s.config
}

// Processes returns a copy of the process registry
func (s *Simulator) Processes() []ProcessSpec {
	return slices.Clone(s.processes)
}

// VirtualTime returns the current simulated time
func (s *Simulator) VirtualTime() int {
	return s.state.Elapsed()
}

// IsFinished reports whether the run has completed
func (s *Simulator) IsFinished() bool {
	return s.state.Status == StatusFinished
}

// Metrics returns the frozen metrics of a finished run, zero otherwise
func (s *Simulator) Metrics() AggregateMetrics {
	return s.state.Metrics
}

// logEvent sends a log message to the callback, if one is set
func (s *Simulator) logEvent(format string, args ...interface{}) {
	if s.LogEvent != nil {
		s.LogEvent(fmt.Sprintf(format, args...))
	}
}
