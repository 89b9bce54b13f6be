package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/miretskiy/schedsim/simulator"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List saved runs, or show one run in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			if st == nil {
				return errors.New("history needs --db")
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				run, err := st.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				outputTitle(out, fmt.Sprintf("%s (run %s)", run.Policy.Label(), run.ID))
				outputSchedule(out, &simulator.State{
					Time:      run.TotalTime,
					Processes: run.Processes,
					Metrics:   run.Metrics,
				}, run.Policy)
				return nil
			}

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found.")
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"ID", "Policy", "Quantum", "Ticks", "Avg Waiting", "Avg Turnaround", "Created"})
			for _, r := range runs {
				quantum := "-"
				if r.Policy.RequiresQuantum() {
					quantum = strconv.Itoa(r.Quantum)
				}
				table.Append([]string{
					r.ID,
					r.Policy.String(),
					quantum,
					strconv.Itoa(r.TotalTime),
					fmt.Sprintf("%.2f", r.Metrics.AvgWaitingTime),
					fmt.Sprintf("%.2f", r.Metrics.AvgTurnaroundTime),
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}
