package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miretskiy/schedsim/simulator"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeWorkload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
processes:
  - {id: 1, arrivalTime: 0, burstTime: 3, priority: 2}
  - {id: 2, arrivalTime: 5, burstTime: 1, priority: 1}
`), 0o644))
	return path
}

func TestOutputGantt_IdleGap(t *testing.T) {
	var buf bytes.Buffer
	outputGantt(&buf, []simulator.TimelineEntry{
		{ProcessID: 1, ProcessName: "P1", Start: 0, End: 3},
		{ProcessID: 2, ProcessName: "P2", Start: 5, End: 6},
	})

	require.Equal(t,
		"Gantt schedule\n"+
			"|   P1   |  idle  |   P2   |\n"+
			"0        3        5        6\n\n",
		buf.String())
}

func TestOutputGantt_Empty(t *testing.T) {
	var buf bytes.Buffer
	outputGantt(&buf, nil)
	require.Equal(t, "Gantt schedule\n(empty)\n\n", buf.String())
}

func TestMarker(t *testing.T) {
	require.Equal(t, " *", marker(1, 1, 3))
	require.Equal(t, " !", marker(3, 1, 3))
	require.Equal(t, "", marker(2, 1, 3))
	require.Equal(t, "", marker(2, 2, 2))
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "-w", writeWorkload(t), "-p", "SJF")
	require.NoError(t, err)
	require.Contains(t, out, "Shortest Job First (SJF, Non-Preemptive)")
	require.Contains(t, out, "|   P1   |  idle  |   P2   |")
	require.Contains(t, out, "CPU utilization 66.67%, throughput 0.333/t over 6 ticks")
}

func TestRunCommand_PriorityColumn(t *testing.T) {
	out, err := execute(t, "run", "-w", writeWorkload(t), "-p", "PRIORITY_NP")
	require.NoError(t, err)
	require.Contains(t, out, "PRIORITY")

	out, err = execute(t, "run", "-w", writeWorkload(t), "-p", "SJF")
	require.NoError(t, err)
	require.NotContains(t, out, "PRIORITY")
}

func TestRunCommand_WorkloadRequired(t *testing.T) {
	_, err := execute(t, "run")
	require.ErrorContains(t, err, "one of --workload or --random is required")

	_, err = execute(t, "run", "-w", writeWorkload(t), "--random", "3")
	require.ErrorContains(t, err, "mutually exclusive")

	_, err = execute(t, "run", "--random", "3", "-p", "RR", "-q", "-1")
	require.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--random", "6", "--seed", "3", "-q", "2")
	require.NoError(t, err)
	for _, p := range simulator.Policies() {
		require.Contains(t, out, p.Label())
	}
	require.Contains(t, out, "* best  ! worst")
}

func TestCompareCommand_Timeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.yaml")
	require.NoError(t, os.WriteFile(path, []byte("processes:\n  - {id: 1, burstTime: 2000}\n"), 0o644))

	out, err := execute(t, "compare", "-w", path)
	require.NoError(t, err)
	require.Equal(t, len(simulator.Policies()), strings.Count(out, "timed out after 1000 ticks"))
}

func TestCompareCommand_Distributions(t *testing.T) {
	out, err := execute(t, "compare", "--random", "8", "--seed", "5", "--arrival-dist", "geometric", "--burst-dist", "exponential")
	require.NoError(t, err)
	require.Contains(t, out, "* best  ! worst")

	_, err = execute(t, "compare", "--random", "8", "--burst-dist", "zipf")
	require.ErrorContains(t, err, "--burst-dist")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "export", "-w", writeWorkload(t), "-o", dir, "--name", "fifo", "-f", "csv")
	require.NoError(t, err)

	path := filepath.Join(dir, "fifo.csv")
	require.Equal(t, path, strings.TrimSpace(out))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t,
		"ID,Name,Arrival Time,Burst Time,Priority,Finish Time,Turnaround Time,Waiting Time,Response Time\n"+
			"1,P1,0,3,2,3,3,0,0\n"+
			"2,P2,5,1,1,6,1,0,0",
		string(data))

	out, err = execute(t, "export", "-w", writeWorkload(t), "-o", "-", "-f", "json")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "{\n  \"processes\": ["))

	_, err = execute(t, "export", "-w", writeWorkload(t), "-f", "xml")
	require.Error(t, err)
}

func TestHistoryCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	workload := writeWorkload(t)

	_, err := execute(t, "history")
	require.ErrorContains(t, err, "history needs --db")

	out, err := execute(t, "--db", db, "history")
	require.NoError(t, err)
	require.Contains(t, out, "No runs found.")

	_, err = execute(t, "--db", db, "run", "-w", workload, "-p", "RR", "-q", "2")
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "run", "-w", workload, "-p", "FIFO")
	require.NoError(t, err)

	out, err = execute(t, "--db", db, "history")
	require.NoError(t, err)
	require.Contains(t, out, "RR")
	require.Contains(t, out, "FIFO")

	_, err = execute(t, "--db", db, "history", "missing")
	require.ErrorContains(t, err, "run missing not found")
}
