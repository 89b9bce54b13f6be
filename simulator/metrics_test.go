package simulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateMetrics(t *testing.T) {
	final := run(t, PolicyFIFO, 0, proc(1, 0, 3, 0), proc(2, 0, 2, 0))

	m := CalculateMetrics(final.Processes, final.Time)
	require.InDelta(t, 1.5, m.AvgWaitingTime, 1e-9)
	require.InDelta(t, 4.0, m.AvgTurnaroundTime, 1e-9)
	require.InDelta(t, 1.5, m.AvgResponseTime, 1e-9)
	require.InDelta(t, 100.0, m.CPUUtilization, 1e-9)
	require.InDelta(t, 0.4, m.Throughput, 1e-9)
	require.Equal(t, m, final.Metrics)
}

func TestCalculateMetrics_DegenerateInputs(t *testing.T) {
	require.Equal(t, AggregateMetrics{}, CalculateMetrics(nil, 10))

	procs := []ProcessRuntime{NewProcessRuntime(proc(1, 0, 1, 0))}
	require.Equal(t, AggregateMetrics{}, CalculateMetrics(procs, 0))
	require.Equal(t, AggregateMetrics{}, CalculateMetrics(procs, -1))
}

func TestMinMax(t *testing.T) {
	results := []ComparisonResult{
		{Policy: PolicyFIFO, Metrics: AggregateMetrics{AvgWaitingTime: 4}},
		{Policy: PolicySJF, Metrics: AggregateMetrics{AvgWaitingTime: 2}},
		{Policy: PolicyRoundRobin, Err: errors.New("boom"), Metrics: AggregateMetrics{AvgWaitingTime: 0}},
		{Policy: PolicyLIFO, Metrics: AggregateMetrics{AvgWaitingTime: 6}},
	}
	waiting := func(m AggregateMetrics) float64 { return m.AvgWaitingTime }

	lo, hi, ok := MinMax(results, waiting)
	require.True(t, ok)
	require.Equal(t, 2.0, lo, "failed runs are ignored")
	require.Equal(t, 6.0, hi)

	_, _, ok = MinMax(results[2:3], waiting)
	require.False(t, ok)
}
