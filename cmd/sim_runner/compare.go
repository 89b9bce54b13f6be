package main

import (
	"github.com/miretskiy/schedsim/simulator"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var wf workloadFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every policy on the same workload and compare their metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, cfg, err := wf.load()
			if err != nil {
				return err
			}

			results, err := simulator.RunAll(procs, cfg.Options())
			if err != nil {
				return err
			}
			for _, r := range simulator.Failed(results) {
				logger.Warn("policy failed", "policy", r.Policy, "timeout", r.IsTimeout(), "error", r.Err)
			}

			out := cmd.OutOrStdout()
			outputTitle(out, "Algorithm comparison")
			outputComparison(out, results)
			return nil
		},
	}
	wf.register(cmd, false)
	return cmd
}
