// Package live paces a simulation in wall-clock time: one tick per period,
// with start, pause, reset and speed control from any goroutine.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/miretskiy/schedsim/simulator"
)

var (
	// ErrInvalidSpeed is returned for a tick period outside [MinSpeedMs, MaxSpeedMs].
	ErrInvalidSpeed = errors.New("invalid speed")

	// ErrClosed is returned by control methods after Close.
	ErrClosed = errors.New("driver closed")
)

// Driver owns a Simulator and advances it on a timer.
//
// All control methods are safe for concurrent use. Once Pause, Reset,
// Configure or Close returns, no further tick of the old run is applied.
type Driver struct {
	mu     sync.Mutex
	sim    *simulator.Simulator
	task   *repeatingTask
	gen    uint64 // bumped whenever the pending task is cancelled
	closed bool
	onTick func(*simulator.State, simulator.SimConfig)

	// notifyMu is acquired before mu is released so observers see
	// snapshots in tick order.
	notifyMu sync.Mutex

	periodNs atomic.Int64
	logger   *slog.Logger
}

// New creates an idle driver for the given registry and config.
func New(processes []simulator.ProcessSpec, config simulator.SimConfig, logger *slog.Logger) (*Driver, error) {
	sim, err := simulator.NewSimulator(processes, config)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Driver{
		sim:    sim,
		logger: logger.With("component", "live"),
	}
	sim.LogEvent = func(msg string) { d.logger.Debug(msg) }
	d.storePeriod(config.SpeedMs)
	return d, nil
}

// OnTick registers fn to receive every snapshot produced by a tick together
// with the config it was produced under. fn runs on the driver's timer
// goroutine and must not call back into the driver.
func (d *Driver) OnTick(fn func(*simulator.State, simulator.SimConfig)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onTick = fn
}

// Start begins or resumes ticking. It is a no-op while already running.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if len(d.sim.Processes()) == 0 {
		return simulator.ErrNoProcesses
	}
	switch d.sim.State().Status {
	case simulator.StatusRunning:
		return nil
	case simulator.StatusFinished:
		return simulator.ErrAlreadyFinished
	}

	d.sim.SetStatus(simulator.StatusRunning)
	d.gen++
	gen := d.gen
	d.task = startRepeating(context.Background(), d.period, func() bool {
		return d.tick(gen)
	})
	d.logger.Info("simulation started",
		"policy", d.sim.Config().Policy,
		"time", d.sim.VirtualTime(),
		"speedMs", d.sim.Config().SpeedMs)
	return nil
}

// Pause stops ticking and keeps the current snapshot.
func (d *Driver) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sim.State().Status != simulator.StatusRunning {
		return
	}
	d.stopLocked()
	d.sim.SetStatus(simulator.StatusPaused)
	d.logger.Info("simulation paused", "time", d.sim.VirtualTime())
}

// Reset cancels any pending tick and returns to the initial snapshot.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.sim.Reset()
	d.logger.Info("simulation reset")
}

// SetSpeed changes the tick period. A running loop picks it up on its
// next tick.
func (d *Driver) SetSpeed(ms int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.sim.SetSpeed(ms); err != nil {
		return fmt.Errorf("%w: %d ms (want %d-%d)", ErrInvalidSpeed, ms, simulator.MinSpeedMs, simulator.MaxSpeedMs)
	}
	d.storePeriod(ms)
	return nil
}

// Configure replaces registry, policy and quantum and resets the run.
// The driver is left idle.
func (d *Driver) Configure(processes []simulator.ProcessSpec, config simulator.SimConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := d.sim.UpdateConfig(processes, config); err != nil {
		return err
	}
	d.stopLocked()
	d.storePeriod(config.SpeedMs)
	d.logger.Info("simulation configured",
		"policy", config.Policy,
		"quantum", config.Quantum,
		"processes", len(processes))
	return nil
}

// Snapshot returns the latest immutable snapshot.
func (d *Driver) Snapshot() *simulator.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.State()
}

// Status returns the lifecycle phase of the current run.
func (d *Driver) Status() simulator.Status {
	return d.Snapshot().Status
}

// Config returns the current configuration.
func (d *Driver) Config() simulator.SimConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Config()
}

// Processes returns a copy of the current registry.
func (d *Driver) Processes() []simulator.ProcessSpec {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Processes()
}

// Close stops the driver permanently and waits for the timer goroutine to exit.
func (d *Driver) Close() {
	d.mu.Lock()
	d.closed = true
	task := d.task
	d.stopLocked()
	d.mu.Unlock()

	if task != nil {
		task.wait()
	}
}

// tick applies one step if gen still names the current run. It reports
// whether the task should keep going.
func (d *Driver) tick(gen uint64) bool {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return false
	}

	next, err := d.sim.Step()
	if err != nil {
		d.logger.Error("tick failed", "error", err)
		d.stopLocked()
		d.mu.Unlock()
		return false
	}

	more := true
	if next.Status == simulator.StatusFinished {
		d.stopLocked()
		more = false
		d.logger.Info("simulation finished",
			"time", next.Time,
			"avgWaitingTime", next.Metrics.AvgWaitingTime,
			"cpuUtilization", next.Metrics.CPUUtilization)
	}

	fn, cfg := d.onTick, d.sim.Config()
	d.notifyMu.Lock()
	d.mu.Unlock()
	defer d.notifyMu.Unlock()
	if fn != nil {
		fn(next, cfg)
	}
	return more
}

func (d *Driver) stopLocked() {
	if d.task != nil {
		d.task.stop()
		d.task = nil
	}
	d.gen++
}

func (d *Driver) period() time.Duration {
	return time.Duration(d.periodNs.Load())
}

func (d *Driver) storePeriod(ms int) {
	d.periodNs.Store(int64(time.Duration(ms) * time.Millisecond))
}
