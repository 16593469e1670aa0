package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No render jobs recorded")
				return nil
			}

			color := shouldColorize(out)
			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				duration := ""
				if job.DurationSeconds > 0 {
					duration = fmt.Sprintf("%.1fs", job.DurationSeconds)
				}
				scenes := ""
				if job.SceneCount > 0 {
					scenes = fmt.Sprintf("%d", job.SceneCount)
				}
				rows = append(rows, []string{
					job.CreatedAt.Local().Format(time.DateTime),
					truncateForDisplay(job.Title, 30),
					statusCell(job, color),
					scenes,
					duration,
					job.OutputPath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Title", "Status", "Scenes", "Duration", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to show (0 for all)")
	return cmd
}

func statusCell(job *ledger.Job, color bool) string {
	value := string(job.Status)
	switch job.Status {
	case ledger.StatusCompleted:
		return colorize(value, ansiGreen, color)
	case ledger.StatusFailed:
		if job.ErrorMessage != "" {
			value = fmt.Sprintf("%s: %s", value, truncateForDisplay(job.ErrorMessage, 40))
		}
		return colorize(value, ansiRed, color)
	default:
		return colorize(value, ansiYellow, color)
	}
}
