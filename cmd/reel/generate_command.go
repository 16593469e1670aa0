package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/pipeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var title string
	var keepStaging bool

	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Render an input document into a finished video",
		Long: "Generate splits the input into scenes, synthesizes narration, generates\n" +
			"background images, times subtitles against the audio, and composes the\n" +
			"final vertical video with burned-in captions.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireOpenAI(); err != nil {
				return err
			}

			inputPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := pipeline.New(cfg, store, logger).Run(cmd.Context(), inputPath, pipeline.Options{
				OutputPath:  outputPath,
				Title:       title,
				KeepStaging: keepStaging,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %q (%d scenes, %.1fs)\n", result.Title, result.SceneCount, result.DurationSeconds)
			fmt.Fprintf(out, "Output: %s\n", result.OutputPath)
			if result.SRTPath != "" {
				fmt.Fprintf(out, "Subtitles: %s\n", result.SRTPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output video path (default: output directory)")
	cmd.Flags().StringVar(&title, "title", "", "Override the detected title")
	cmd.Flags().BoolVar(&keepStaging, "keep-staging", false, "Keep the job staging directory after a successful render")
	return cmd
}
