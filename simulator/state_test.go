package simulator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	s := NewState([]ProcessSpec{proc(1, 2, 3, 0)})

	require.Equal(t, -1, s.Time)
	require.Equal(t, 0, s.Elapsed())
	require.Equal(t, NoProcess, s.Running)
	require.Nil(t, s.RunningProcess())
	require.Equal(t, StatusIdle, s.Status)
	require.True(t, s.ReadyQueue.IsEmpty())
	require.Empty(t, s.Timeline)
	require.Equal(t, 3, s.Processes[0].RemainingTime)
	require.False(t, s.AllFinished())

	require.False(t, NewState(nil).AllFinished(), "an empty run is never finished")
}

func TestState_MarshalJSON(t *testing.T) {
	specs := []ProcessSpec{proc(1, 0, 2, 0), proc(2, 0, 1, 0)}
	sim, err := NewSimulator(specs, DefaultConfig())
	require.NoError(t, err)
	_, err = sim.Step()
	require.NoError(t, err)

	out, err := json.Marshal(sim.State())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, float64(0), decoded["time"])
	require.Equal(t, "idle", decoded["status"])

	running := decoded["runningProcess"].(map[string]any)
	require.Equal(t, "P1", running["name"])
	require.Equal(t, float64(0), running["startTime"])
	require.Nil(t, running["finishTime"])

	queue := decoded["readyQueue"].([]any)
	require.Len(t, queue, 1)
	require.Equal(t, "P2", queue[0].(map[string]any)["name"])

	gantt := decoded["ganttChartData"].([]any)
	require.Equal(t, map[string]any{
		"processId":   float64(1),
		"processName": "P1",
		"start":       float64(0),
		"end":         float64(1),
		"color":       ColorFor(0),
	}, gantt[0])
}

func TestState_MarshalJSONIdleCPU(t *testing.T) {
	out, err := json.Marshal(NewState(nil))
	require.NoError(t, err)
	require.Contains(t, string(out), `"runningProcess":null`)
	require.Contains(t, string(out), `"readyQueue":[]`)
	require.Contains(t, string(out), `"ganttChartData":[]`)
}

func TestWithStatus_LeavesOriginal(t *testing.T) {
	s := NewState([]ProcessSpec{proc(1, 0, 1, 0)})
	paused := s.withStatus(StatusPaused)

	require.Equal(t, StatusIdle, s.Status)
	require.Equal(t, StatusPaused, paused.Status)
	require.Equal(t, s.Time, paused.Time)
}
