package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reel/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the render log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logPath := filepath.Join(cfg.Paths.LogDir, "reel.log")
			out := cmd.OutOrStdout()

			last, offset, err := logs.LastLines(logPath, lines)
			if err != nil {
				return err
			}
			for _, line := range last {
				fmt.Fprintln(out, line)
			}

			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), logPath, offset, func(line string) error {
				_, err := fmt.Fprintln(out, line)
				return err
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines as they arrive")
	return cmd
}
