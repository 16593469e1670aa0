package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/logging"
	"reel/internal/staging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	var list bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover staging directories from old or failed renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				dirs, err := staging.ListDirectories(cfg.Paths.StagingDir)
				if err != nil {
					return err
				}
				if len(dirs) == 0 {
					fmt.Fprintln(out, "Staging is empty")
					return nil
				}
				rows := make([][]string, 0, len(dirs))
				for _, dir := range dirs {
					rows = append(rows, []string{
						dir.Name,
						dir.ModTime.Local().Format(time.DateTime),
						fmt.Sprintf("%.1f MB", float64(dir.Size)/(1024*1024)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Job", "Modified", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
				return nil
			}

			result := staging.CleanStale(cfg.Paths.StagingDir, maxAge, nil)
			for _, cleanupErr := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to remove %s: %v\n", cleanupErr.Path, cleanupErr.Error)
			}
			fmt.Fprintf(out, "Removed %d staging directories older than %s\n", len(result.Removed), maxAge)

			logging.CleanupOldLogs(nil, cfg.Logging.RetentionDays, logging.RetentionTarget{
				Dir:     cfg.Paths.LogDir,
				Pattern: "*.log",
				Exclude: []string{filepath.Join(cfg.Paths.LogDir, "reel.log")},
			})
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Remove job directories older than this")
	cmd.Flags().BoolVar(&list, "list", false, "List staging directories instead of removing them")
	return cmd
}
