package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/logging"
	"reel/internal/pace"
	"reel/internal/scenes"
)

func newScenesCommand(ctx *commandContext) *cobra.Command {
	var showPrompts bool

	cmd := &cobra.Command{
		Use:   "scenes <input>",
		Short: "Preview the scene split without rendering",
		Args:  cobra.ExactArgs(1),
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
			text := string(raw)

			list, err := splitDocument(cfg, text)
			if err != nil {
				return err
			}

			est := pace.New(float64(cfg.Narration.WordsPerMinute), float64(cfg.Narration.CharsPerMinute))
			out := cmd.OutOrStdout()

			if title := scenes.ParseTitle(text); title != "" {
				fmt.Fprintf(out, "Title: %s\n", title)
			}

			rows := make([][]string, 0, len(list))
			var total float64
			for _, scene := range list {
				seconds := est.EstimateDuration(scene.NarrationText)
				total += seconds
				source := "generated"
				if scene.LibraryImage != "" {
					source = "library:" + scene.LibraryImage
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", scene.Index+1),
					fmt.Sprintf("%.1fs", seconds),
					fmt.Sprintf("%d", len(scene.Words)),
					source,
					truncateForDisplay(scene.StatOverlay, 20),
					truncateForDisplay(scene.NarrationText, 40),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Est", "Chunks", "Image", "Stat", "Narration"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d scenes, estimated %.1fs total\n", len(list), total)

			if showPrompts {
				fmt.Fprintln(out)
				for _, scene := range list {
					fmt.Fprintf(out, "Scene %d prompt: %s\n", scene.Index+1, scene.ImagePrompt)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPrompts, "prompts", false, "Also print the image prompt for each scene")
	return cmd
}

// splitDocument applies storyboard parsing when the document carries scene
// headers and falls back to prose splitting otherwise.
func splitDocument(cfg *config.Config, text string) ([]scenes.Scene, error) {
	if scenes.IsStoryboard(text) {
		parser := scenes.StoryboardParser{
			StylePrefix: cfg.ImageGen.StylePrefix,
			Logger:      logging.NewNop(),
		}
		return parser.Parse(text)
	}
	splitter := scenes.Splitter{
		Pace:        pace.New(float64(cfg.Narration.WordsPerMinute), float64(cfg.Narration.CharsPerMinute)),
		StylePrefix: cfg.ImageGen.StylePrefix,
	}
	return splitter.Split(text, cfg.Video.MaxDurationSeconds)
}

func truncateForDisplay(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
