package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/media/ffprobe"
	"reel/internal/scenes"
	"reel/internal/subtitles"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	var durationsFlag string
	var audioDir string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "subtitles <input>",
		Short: "Generate a timed SRT file without rendering video",
		Long: "Subtitles splits the input into scenes and allocates wall-clock timing\n" +
			"from per-scene audio durations. Supply durations directly with\n" +
			"--durations, or point --audio-dir at a directory of scene audio files\n" +
			"to measure them with ffprobe.",
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

			list, err := splitDocument(cfg, string(raw))
			if err != nil {
				return err
			}

			durations, err := resolveDurations(cmd, cfg, durationsFlag, audioDir, len(list))
			if err != nil {
				return err
			}

			entries := subtitles.Generate(scenes.Narrations(list), durations, subtitles.Options{
				WordsPerChunk:     cfg.Narration.WordsPerChunk,
				MinDisplaySeconds: cfg.Narration.MinDisplaySeconds,
			})

			target := strings.TrimSpace(outputPath)
			if target == "" {
				base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
				target = base + ".srt"
			}
			if err := subtitles.WriteSRT(entries, target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d cues to %s\n", len(entries), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&durationsFlag, "durations", "", "Comma-separated per-scene audio durations in seconds")
	cmd.Flags().StringVar(&audioDir, "audio-dir", "", "Directory of scene audio files to measure with ffprobe")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "SRT output path (default: input path with .srt)")
	return cmd
}

func resolveDurations(cmd *cobra.Command, cfg *config.Config, durationsFlag, audioDir string, sceneCount int) ([]float64, error) {
	durationsFlag = strings.TrimSpace(durationsFlag)
	audioDir = strings.TrimSpace(audioDir)

	switch {
	case durationsFlag != "" && audioDir != "":
		return nil, fmt.Errorf("--durations and --audio-dir are mutually exclusive")
	case durationsFlag != "":
		return parseDurations(durationsFlag, sceneCount)
	case audioDir != "":
		return probeDurations(cmd, cfg, audioDir, sceneCount)
	default:
		return nil, fmt.Errorf("one of --durations or --audio-dir is required")
	}
}

func parseDurations(value string, sceneCount int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != sceneCount {
		return nil, fmt.Errorf("got %d durations for %d scenes", len(parts), sceneCount)
	}
	durations := make([]float64, len(parts))
	for i, part := range parts {
		seconds, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", part, err)
		}
		if seconds <= 0 {
			return nil, fmt.Errorf("duration %q must be positive", part)
		}
		durations[i] = seconds
	}
	return durations, nil
}

// probeDurations measures every audio file in dir, sorted by name so
// scene_000, scene_001, ... line up with scene order.
func probeDurations(cmd *cobra.Command, cfg *config.Config, dir string, sceneCount int) ([]float64, error) {
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(expanded)
	if err != nil {
		return nil, fmt.Errorf("read audio directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".mp3", ".wav", ".aac", ".flac", ".opus", ".m4a":
			files = append(files, filepath.Join(expanded, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) != sceneCount {
		return nil, fmt.Errorf("found %d audio files for %d scenes in %s", len(files), sceneCount, expanded)
	}

	durations := make([]float64, len(files))
	for i, path := range files {
		seconds, err := ffprobe.AudioDuration(cmd.Context(), cfg.FFprobeBinary(), path)
		if err != nil {
			return nil, err
		}
		durations[i] = seconds
	}
	return durations, nil
}
