package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/miretskiy/schedsim/simulator"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if dbPath == ":memory:" {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// SaveRun inserts a run and its process rows in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID, "processes", len(run.Processes))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	m := run.Metrics
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, policy, quantum, total_time, avg_waiting_time, avg_turnaround_time,
		 avg_response_time, cpu_utilization, throughput, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Policy.String(), run.Quantum, run.TotalTime,
		m.AvgWaitingTime, m.AvgTurnaroundTime, m.AvgResponseTime, m.CPUUtilization, m.Throughput,
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i, p := range run.Processes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_processes (run_id, position, process_id, name, arrival_time, burst_time, priority,
			 color, start_time, finish_time, waiting_time, turnaround_time, response_time)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, p.ID, p.Name, p.ArrivalTime, p.BurstTime, p.Priority,
			p.Color, nullInt(p.StartTime), nullInt(p.FinishTime), p.WaitingTime, p.TurnaroundTime, p.ResponseTime,
		)
		if err != nil {
			return fmt.Errorf("insert process %d of run %s: %w", p.ID, run.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun loads a run with its processes. It returns nil, nil when no run
// has that ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)

	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT id, policy, quantum, total_time, avg_waiting_time, avg_turnaround_time,
		 avg_response_time, cpu_utilization, throughput, created_at
		 FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT process_id, name, arrival_time, burst_time, priority, color,
		 start_time, finish_time, waiting_time, turnaround_time, response_time
		 FROM run_processes WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p simulator.ProcessRuntime
		var start, finish sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.ArrivalTime, &p.BurstTime, &p.Priority, &p.Color,
			&start, &finish, &p.WaitingTime, &p.TurnaroundTime, &p.ResponseTime); err != nil {
			return nil, err
		}
		p.StartTime = intPtr(start)
		p.FinishTime = intPtr(finish)
		p.HasStarted = p.StartTime != nil
		if p.FinishTime == nil {
			p.RemainingTime = p.BurstTime
		}
		run.Processes = append(run.Processes, p)
	}
	return run, rows.Err()
}

// ListRuns returns up to limit runs, newest first, without process rows.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	s.logger.Debug("sql", "op", "list", "table", "runs", "limit", limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, policy, quantum, total_time, avg_waiting_time, avg_turnaround_time,
		 avg_response_time, cpu_utilization, throughput, created_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var policy, createdAt string
	m := &run.Metrics
	if err := row.Scan(&run.ID, &policy, &run.Quantum, &run.TotalTime,
		&m.AvgWaitingTime, &m.AvgTurnaroundTime, &m.AvgResponseTime, &m.CPUUtilization, &m.Throughput,
		&createdAt); err != nil {
		return nil, err
	}

	var err error
	if run.Policy, err = simulator.ParsePolicy(policy); err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &run, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
