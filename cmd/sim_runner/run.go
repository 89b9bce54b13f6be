package main

import (
	"errors"
	"fmt"

	"github.com/miretskiy/schedsim/simulator"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var wf workloadFlags
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one policy to completion and print its schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, cfg, err := wf.load()
			if err != nil {
				return err
			}
			sim, err := simulator.NewSimulator(procs, cfg)
			if err != nil {
				return err
			}
			if verbose {
				sim.LogEvent = func(msg string) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[SIM] %s\n", msg)
				}
			}

			final, err := sim.RunToCompletion(simulator.MaxTicks)
			if errors.Is(err, simulator.ErrTimeout) {
				logger.Warn("run did not finish", "policy", cfg.Policy, "time", final.Time)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			outputTitle(out, cfg.Policy.Label())
			outputGantt(out, final.Timeline)
			outputSchedule(out, final, cfg.Policy)

			return record(cmd.Context(), final, cfg)
		},
	}
	wf.register(cmd, true)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every tick")
	return cmd
}
