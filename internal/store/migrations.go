package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the run history tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id                  TEXT PRIMARY KEY,
		policy              TEXT NOT NULL,
		quantum             INTEGER NOT NULL DEFAULT 0,
		total_time          INTEGER NOT NULL,
		avg_waiting_time    REAL NOT NULL,
		avg_turnaround_time REAL NOT NULL,
		avg_response_time   REAL NOT NULL,
		cpu_utilization     REAL NOT NULL,
		throughput          REAL NOT NULL,
		created_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS run_processes (
		run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		process_id      INTEGER NOT NULL,
		name            TEXT NOT NULL,
		arrival_time    INTEGER NOT NULL,
		burst_time      INTEGER NOT NULL,
		priority        INTEGER NOT NULL,
		color           TEXT NOT NULL DEFAULT '',
		start_time      INTEGER,
		finish_time     INTEGER,
		waiting_time    INTEGER NOT NULL,
		turnaround_time INTEGER NOT NULL,
		response_time   INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_policy ON runs(policy)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
