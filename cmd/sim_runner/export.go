package main

import (
	"fmt"

	"github.com/miretskiy/schedsim/export"
	"github.com/miretskiy/schedsim/simulator"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var wf workloadFlags
	var dir, name, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run one policy and write its per-process metrics as JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			procs, cfg, err := wf.load()
			if err != nil {
				return err
			}
			final, err := simulator.RunHeadless(procs, cfg.Policy, cfg.Options())
			if err != nil {
				return err
			}

			if dir == "-" {
				if err := export.Write(cmd.OutOrStdout(), f, final); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}
			path, err := export.WriteFile(dir, name, f, final)
			if err != nil {
				return err
			}
			logger.Info("export written", "path", path, "format", f, "policy", cfg.Policy)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	wf.register(cmd, true)
	cmd.Flags().StringVarP(&dir, "out", "o", ".", `Output directory ("-" for stdout)`)
	cmd.Flags().StringVar(&name, "name", "", "Base file name (default schedsim_<id>)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, csv)")
	return cmd
}
