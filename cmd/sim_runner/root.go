package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/miretskiy/schedsim/internal/logging"
	"github.com/miretskiy/schedsim/internal/store"
	"github.com/miretskiy/schedsim/simulator"
	"github.com/miretskiy/schedsim/workload"
	"github.com/spf13/cobra"
)

var (
	flagLogLevel  string
	flagLogFormat string
	flagDB        string

	logger *slog.Logger
)

// workloadFlags select the process set and scheduling parameters.
type workloadFlags struct {
	file    string
	random  int
	seed    int64
	arrival string
	burst   string
	policy  string
	quantum int
}

func (f *workloadFlags) register(cmd *cobra.Command, withPolicy bool) {
	cmd.Flags().StringVarP(&f.file, "workload", "w", "", "Workload file (.yaml, .json or .csv)")
	cmd.Flags().IntVar(&f.random, "random", 0, "Generate N random processes instead of reading a workload")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Seed for --random (0 uses the clock)")
	cmd.Flags().StringVar(&f.arrival, "arrival-dist", "uniform", "Arrival time distribution for --random: uniform, exponential, geometric")
	cmd.Flags().StringVar(&f.burst, "burst-dist", "uniform", "Burst time distribution for --random: uniform, exponential, geometric")
	cmd.Flags().IntVarP(&f.quantum, "quantum", "q", 0, "Round Robin quantum (overrides the workload)")
	if withPolicy {
		cmd.Flags().StringVarP(&f.policy, "policy", "p", "", "Scheduling policy: FIFO, LIFO, SJF, SRTF, RR, PRIORITY_NP, PRIORITY_P")
	}
}

// load resolves the process set and config described by the flags.
func (f *workloadFlags) load() ([]simulator.ProcessSpec, simulator.SimConfig, error) {
	cfg := simulator.DefaultConfig()

	var w *workload.Workload
	switch {
	case f.file != "" && f.random > 0:
		return nil, cfg, errors.New("--workload and --random are mutually exclusive")
	case f.file != "":
		var err error
		if w, err = workload.LoadFile(f.file); err != nil {
			return nil, cfg, err
		}
	case f.random > 0:
		seed := f.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		var shape workload.Shape
		if err := shape.Arrival.UnmarshalText([]byte(f.arrival)); err != nil {
			return nil, cfg, fmt.Errorf("--arrival-dist: %w", err)
		}
		if err := shape.Burst.UnmarshalText([]byte(f.burst)); err != nil {
			return nil, cfg, fmt.Errorf("--burst-dist: %w", err)
		}
		w = &workload.Workload{Processes: workload.RandomWith(f.random, rand.New(rand.NewSource(seed)), shape)}
		logger.Debug("generated workload", "processes", f.random, "seed", seed, "arrival", shape.Arrival, "burst", shape.Burst)
	default:
		return nil, cfg, errors.New("one of --workload or --random is required")
	}

	if f.policy != "" {
		w.Policy = f.policy
	}
	if f.quantum != 0 {
		w.Quantum = f.quantum
	}
	cfg, err := w.Config(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return w.Processes, cfg, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sim_runner",
		Short: "Discrete-time CPU scheduling simulator",
		Long:  "sim_runner steps processes through FIFO, LIFO, SJF, SRTF, Round Robin and Priority scheduling one tick at a time.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite run history database (empty disables history)")

	root.AddCommand(
		newRunCmd(),
		newCompareCmd(),
		newExportCmd(),
		newHistoryCmd(),
	)
	return root
}

// openStore opens the history database, or returns nil when --db is unset.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	if flagDB == "" {
		return nil, nil
	}
	st, err := store.NewSQLiteStore(flagDB, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate %s: %w", flagDB, err)
	}
	return st, nil
}

// record saves a finished run when history is enabled.
func record(ctx context.Context, final *simulator.State, cfg simulator.SimConfig) error {
	st, err := openStore(ctx)
	if err != nil || st == nil {
		return err
	}
	defer st.Close()

	run := store.NewRun(final, cfg)
	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Info("run saved", "id", run.ID, "policy", cfg.Policy)
	return nil
}
