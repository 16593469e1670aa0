package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/pipeline"
	"reel/internal/readings"
)

func newReadingsCommand(ctx *commandContext) *cobra.Command {
	readingsCmd := &cobra.Command{
		Use:   "readings",
		Short: "Manage pronunciation overrides for speech synthesis",
	}

	readingsCmd.AddCommand(newReadingsShowCommand(ctx))
	readingsCmd.AddCommand(newReadingsSuggestCommand(ctx))

	return readingsCmd
}

func newReadingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the entries in the readings dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := pipeline.ResolveReadingsPath(cfg.Paths.ReadingsPath, "readings.yml")
			dict, err := readings.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dict.Len() == 0 {
				fmt.Fprintf(out, "No readings found at %s\n", path)
				return nil
			}

			rows := make([][]string, 0, dict.Len())
			for _, entry := range dict.Entries() {
				rows = append(rows, []string{entry.Surface, entry.Reading})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Surface", "Reading"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d entries from %s\n", dict.Len(), path)
			return nil
		},
	}
}

func newReadingsSuggestCommand(ctx *commandContext) *cobra.Command {
	var write bool
	var dictPath string

	cmd := &cobra.Command{
		Use:   "suggest <input>",
		Short: "Suggest readings for kanji words not yet in the dictionary",
		Long: "Suggest tokenizes the input with a morphological analyzer and proposes\n" +
			"hiragana readings for kanji-bearing words the dictionary does not cover\n" +
			"yet. Review the output before saving; analyzer readings for names are\n" +
			"frequently wrong.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inputPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			path := dictPath
			if path == "" {
				path = pipeline.ResolveReadingsPath(cfg.Paths.ReadingsPath, inputPath)
			}
			dict, err := readings.Load(path)
			if err != nil {
				return err
			}

			suggester, err := readings.NewSuggester()
			if err != nil {
				return err
			}
			suggestions := suggester.Suggest(string(raw), dict)

			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "No new readings to suggest")
				return nil
			}

			rows := make([][]string, 0, len(suggestions))
			for _, entry := range suggestions {
				rows = append(rows, []string{entry.Surface, entry.Reading})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Surface", "Suggested reading"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))

			if !write {
				fmt.Fprintf(out, "%d suggestions (use --write to add them to %s)\n", len(suggestions), path)
				return nil
			}

			merged := append(dict.Entries(), suggestions...)
			if err := readings.Save(path, readings.NewDictionary(merged)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %d readings to %s\n", len(suggestions), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Append accepted suggestions to the dictionary")
	cmd.Flags().StringVar(&dictPath, "dictionary", "", "Readings dictionary path (default: configured or beside input)")
	return cmd
}
