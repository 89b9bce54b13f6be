package store

import (
	"context"
	"testing"
	"time"

	"github.com/miretskiy/schedsim/internal/logging"
	"github.com/miretskiy/schedsim/simulator"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(":memory:", logging.Discard())
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func finishedRun(t *testing.T, policy simulator.Policy) (*simulator.State, simulator.SimConfig) {
	t.Helper()
	specs := []simulator.ProcessSpec{
		{ID: 1, Name: "P1", ArrivalTime: 0, BurstTime: 3, Priority: 2, Color: simulator.ColorFor(0)},
		{ID: 2, Name: "P2", ArrivalTime: 1, BurstTime: 2, Priority: 1, Color: simulator.ColorFor(1)},
	}
	cfg := simulator.DefaultConfig()
	cfg.Policy = policy
	final, err := simulator.RunHeadless(specs, policy, cfg.Options())
	require.NoError(t, err)
	return final, cfg
}

func TestMigrate_Idempotent(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSaveAndGetRun(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	final, cfg := finishedRun(t, simulator.PolicyRoundRobin)
	run := NewRun(final, cfg)
	require.NotEmpty(t, run.ID)
	require.Equal(t, 2, run.Quantum)
	require.NoError(t, st.SaveRun(ctx, run))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, run.ID, got.ID)
	require.Equal(t, simulator.PolicyRoundRobin, got.Policy)
	require.Equal(t, run.Quantum, got.Quantum)
	require.Equal(t, final.Elapsed(), got.TotalTime)
	require.Equal(t, final.Metrics, got.Metrics)
	require.Equal(t, final.Processes, got.Processes)
	require.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestGetRun_NotFound(t *testing.T) {
	st := testStore(t)

	got, err := st.GetRun(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSaveRun_DuplicateIDRollsBack(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	final, cfg := finishedRun(t, simulator.PolicyFIFO)
	run := NewRun(final, cfg)
	require.NoError(t, st.SaveRun(ctx, run))
	require.Error(t, st.SaveRun(ctx, run))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got.Processes, 2)
}

func TestListRuns_NewestFirst(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var ids []string
	for i, policy := range []simulator.Policy{simulator.PolicyFIFO, simulator.PolicySJF, simulator.PolicySRTF} {
		final, cfg := finishedRun(t, policy)
		run := NewRun(final, cfg)
		run.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, st.SaveRun(ctx, run))
		ids = append(ids, run.ID)
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, ids[2], runs[0].ID)
	require.Equal(t, simulator.PolicySRTF, runs[0].Policy)
	require.Equal(t, ids[1], runs[1].ID)
	require.Empty(t, runs[0].Processes, "listing skips process rows")

	all, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
