// Package store persists finished simulation runs in SQLite.
package store

import (
	"context"
	"time"

	"github.com/miretskiy/schedsim/simulator"
	"github.com/rs/xid"
)

// Run is one finished simulation with its per-process results.
type Run struct {
	ID        string                     `json:"id"`
	Policy    simulator.Policy           `json:"policy"`
	Quantum   int                        `json:"quantum"`
	TotalTime int                        `json:"totalTime"`
	Metrics   simulator.AggregateMetrics `json:"metrics"`
	Processes []simulator.ProcessRuntime `json:"processes,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// NewRun captures a finished snapshot under a fresh ID.
func NewRun(state *simulator.State, config simulator.SimConfig) *Run {
	quantum := 0
	if config.Policy.RequiresQuantum() {
		quantum = config.Quantum
	}
	return &Run{
		ID:        xid.New().String(),
		Policy:    config.Policy,
		Quantum:   quantum,
		TotalTime: state.Elapsed(),
		Metrics:   state.Metrics,
		Processes: state.Processes,
		CreatedAt: time.Now().UTC(),
	}
}

// Store defines the run history persistence layer.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
