package simulator

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// proc builds a ProcessSpec with a generated name and colour.
func proc(id, arrival, burst, priority int) ProcessSpec {
	return ProcessSpec{
		ID:          id,
		Name:        "P" + strconv.Itoa(id),
		ArrivalTime: arrival,
		BurstTime:   burst,
		Priority:    priority,
		Color:       ColorFor(id - 1),
	}
}

// run drives a fresh state to completion, failing the test on timeout.
func run(t *testing.T, policy Policy, quantum int, specs ...ProcessSpec) *State {
	t.Helper()
	final, err := RunHeadless(specs, policy, Options{Quantum: quantum})
	require.NoError(t, err)
	require.Equal(t, StatusFinished, final.Status)
	return final
}

type span struct{ id, start, end int }

func spans(s *State) []span {
	out := make([]span, 0, len(s.Timeline))
	for _, e := range s.Timeline {
		out = append(out, span{e.ProcessID, e.Start, e.End})
	}
	return out
}

func randomSpecs(rng *rand.Rand, n int) []ProcessSpec {
	specs := make([]ProcessSpec, n)
	for i := range specs {
		specs[i] = proc(i+1, rng.Intn(10), rng.Intn(10)+1, rng.Intn(10))
	}
	return specs
}

func TestSimulator_NewSimulatorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = PolicyRoundRobin
	cfg.Quantum = 0

	_, err := NewSimulator([]ProcessSpec{proc(1, 0, 1, 0)}, cfg)
	require.Error(t, err)
	require.IsType(t, SimError{}, err)
}

func TestSimulator_StepMarksFinishedAndFreezesMetrics(t *testing.T) {
	sim, err := NewSimulator([]ProcessSpec{proc(1, 0, 3, 0), proc(2, 0, 2, 0)}, DefaultConfig())
	require.NoError(t, err)

	// Time starts at -1, so the run ending at time 5 takes six steps.
	var last *State
	for i := 0; i < 5; i++ {
		last, err = sim.Step()
		require.NoError(t, err)
	}
	require.Equal(t, 4, last.Time)
	require.False(t, sim.IsFinished())

	last, err = sim.Step()
	require.NoError(t, err)
	require.True(t, sim.IsFinished())
	require.Equal(t, 5, sim.VirtualTime())
	require.Equal(t, last.Metrics, sim.Metrics())
	require.InDelta(t, 1.5, sim.Metrics().AvgWaitingTime, 1e-9)

	_, err = sim.Step()
	require.ErrorIs(t, err, ErrAlreadyFinished)
	require.Same(t, last, sim.State(), "failed step must not replace the snapshot")
}

func TestSimulator_LogEventCallback(t *testing.T) {
	sim, err := NewSimulator([]ProcessSpec{proc(1, 1, 1, 0)}, DefaultConfig())
	require.NoError(t, err)

	var lines []string
	sim.LogEvent = func(msg string) { lines = append(lines, msg) }

	_, err = sim.RunToCompletion(MaxTicks)
	require.NoError(t, err)
	require.Equal(t, []string{
		"[t=0] CPU idle",
		"[t=1] P1 on CPU (remaining=1, queued=0)",
		"[t=2] CPU idle",
		"[t=2] all 1 processes finished (policy=FIFO)",
	}, lines)
}

func TestSimulator_SetStatusPublishesNewSnapshot(t *testing.T) {
	sim, err := NewSimulator([]ProcessSpec{proc(1, 0, 2, 0)}, DefaultConfig())
	require.NoError(t, err)

	before := sim.State()
	sim.SetStatus(StatusRunning)
	after := sim.State()

	require.Equal(t, StatusIdle, before.Status, "published snapshots are immutable")
	require.Equal(t, StatusRunning, after.Status)
	require.NotSame(t, before, after)
}

func TestSimulator_SetSpeedValidatesRange(t *testing.T) {
	sim, err := NewSimulator(nil, DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, sim.SetSpeed(MinSpeedMs))
	require.Equal(t, MinSpeedMs, sim.Config().SpeedMs)
	require.Error(t, sim.SetSpeed(MinSpeedMs-1))
	require.Error(t, sim.SetSpeed(MaxSpeedMs+1))
	require.Equal(t, MinSpeedMs, sim.Config().SpeedMs, "rejected speed leaves config untouched")
}

func TestSimulator_RunToCompletionEmpty(t *testing.T) {
	sim, err := NewSimulator(nil, DefaultConfig())
	require.NoError(t, err)

	_, err = sim.RunToCompletion(MaxTicks)
	require.ErrorIs(t, err, ErrNoProcesses)
}

func TestSimulator_RunToCompletionTimeout(t *testing.T) {
	sim, err := NewSimulator([]ProcessSpec{proc(1, MaxTicks+5, 1, 0)}, DefaultConfig())
	require.NoError(t, err)

	last, err := sim.RunToCompletion(MaxTicks)
	require.ErrorIs(t, err, ErrTimeout)
	require.NotNil(t, last)
	require.Equal(t, MaxTicks+1, last.Time)
}

func TestSimulator_ProcessesReturnsCopy(t *testing.T) {
	specs := []ProcessSpec{proc(1, 0, 2, 0)}
	sim, err := NewSimulator(specs, DefaultConfig())
	require.NoError(t, err)

	specs[0].BurstTime = 99
	got := sim.Processes()
	require.Equal(t, 2, got[0].BurstTime, "registry is copied on construction")

	got[0].BurstTime = 42
	require.Equal(t, 2, sim.Processes()[0].BurstTime)
}
