// Package composer assembles the final video from per-scene images, narration
// audio, and the subtitle track using ffmpeg.
package composer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"reel/internal/config"
	"reel/internal/logging"
	"reel/internal/services"
)

// Stat overlay styling. The callout sits in the upper portion of the frame,
// well clear of the subtitle band at 60% height.
const (
	overlayFontSize    = 72
	overlayBoxColor    = "black@0.6"
	overlayBoxPadding  = 24
	overlayYExpression = "h*0.12"
)

// Composer shells out to ffmpeg to build an H.264/AAC vertical video.
type Composer struct {
	Binary string
	Video  config.Video
	// FontFile renders stat overlays; empty leaves drawtext to its default
	// font, which usually lacks CJK glyphs.
	FontFile string
	Logger   *slog.Logger
}

// New builds a composer from application configuration.
func New(cfg *config.Config, logger *slog.Logger) *Composer {
	return &Composer{
		Binary:   cfg.FFmpegBinary(),
		Video:    cfg.Video,
		FontFile: findCJKFont(),
		Logger:   logging.NewComponentLogger(logger, "composer"),
	}
}

// findCJKFont probes the usual install locations for a font that can render
// Japanese text.
func findCJKFont() string {
	var candidates []string
	if runtime.GOOS == "darwin" {
		candidates = []string{
			"/System/Library/Fonts/ヒラギノ角ゴシック W6.ttc",
			"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
			"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
		}
	} else {
		candidates = []string{
			"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
		}
	}
	for _, font := range candidates {
		if _, err := os.Stat(font); err == nil {
			return font
		}
	}
	return ""
}

// Compose renders outputPath from scene images and audio clips. imagePaths,
// audioPaths, and durations must be parallel slices in scene order; each
// image is shown for exactly its scene's audio duration. overlays carries the
// per-scene stat callout burned onto that scene's frames; it may be nil, and
// empty entries draw nothing.
func (c *Composer) Compose(ctx context.Context, imagePaths, audioPaths []string, durations []float64, overlays []string, srtPath, outputPath string) error {
	if len(imagePaths) == 0 {
		return services.Wrap(services.ErrValidation, "composer", "compose", "no scenes to compose", nil)
	}
	if len(imagePaths) != len(audioPaths) || len(imagePaths) != len(durations) {
		return services.Wrap(services.ErrValidation, "composer", "compose",
			fmt.Sprintf("mismatched inputs: %d images, %d audio clips, %d durations",
				len(imagePaths), len(audioPaths), len(durations)), nil)
	}
	if overlays != nil && len(overlays) != len(imagePaths) {
		return services.Wrap(services.ErrValidation, "composer", "compose",
			fmt.Sprintf("mismatched inputs: %d images, %d overlays", len(imagePaths), len(overlays)), nil)
	}

	args := c.buildArgs(imagePaths, audioPaths, durations, overlays, srtPath, outputPath)

	logger := c.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("composing video",
		slog.Int("scenes", len(imagePaths)),
		slog.String("output", outputPath))
	logger.Debug("ffmpeg invocation", slog.String("args", strings.Join(args, " ")))

	binary := c.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "composer", "compose",
			"ffmpeg failed: "+tail(string(output), 2000), err)
	}
	return nil
}

// buildArgs constructs the full ffmpeg argument list. Images come first in
// input order, then audio clips, so the filter graph can address [i:v] for
// scene i and [n+i:a] for its narration.
func (c *Composer) buildArgs(imagePaths, audioPaths []string, durations []float64, overlays []string, srtPath, outputPath string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for i, image := range imagePaths {
		args = append(args,
			"-loop", "1",
			"-t", formatSeconds(durations[i]),
			"-framerate", strconv.Itoa(c.Video.FPS),
			"-i", image,
		)
	}
	for _, audio := range audioPaths {
		args = append(args, "-i", audio)
	}

	args = append(args, "-filter_complex", c.buildFilter(len(imagePaths), overlays, srtPath))
	args = append(args,
		"-map", "[vout]",
		"-map", "[aout]",
		"-c:v", "libx264",
		"-preset", "medium",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(c.Video.FPS),
		"-c:a", "aac",
		outputPath,
	)
	return args
}

// buildFilter produces the filter_complex graph: every image is scaled to
// cover the output frame and center-cropped, scenes with a stat overlay get
// their callout drawn, scenes are concatenated against their audio clips, and
// the subtitle track is burned in last.
func (c *Composer) buildFilter(sceneCount int, overlays []string, srtPath string) string {
	var b strings.Builder
	geometry := fmt.Sprintf("%d:%d", c.Video.Width, c.Video.Height)

	for i := 0; i < sceneCount; i++ {
		fmt.Fprintf(&b, "[%d:v]scale=%s:force_original_aspect_ratio=increase,crop=%s,setsar=1",
			i, geometry, geometry)
		if i < len(overlays) && overlays[i] != "" {
			b.WriteString("," + c.drawOverlay(overlays[i]))
		}
		fmt.Fprintf(&b, "[v%d];", i)
	}
	for i := 0; i < sceneCount; i++ {
		fmt.Fprintf(&b, "[v%d][%d:a]", i, sceneCount+i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[vc][aout];", sceneCount)
	fmt.Fprintf(&b, "[vc]subtitles=%s[vout]", escapeFilterPath(srtPath))
	return b.String()
}

// drawOverlay renders one stat callout as a drawtext stage: white text on a
// semi-transparent box, centered horizontally near the top of the frame.
// Expansion is disabled so percent signs in the text stay literal.
func (c *Composer) drawOverlay(text string) string {
	var b strings.Builder
	b.WriteString("drawtext=expansion=none:text=" + escapeDrawtext(text))
	if c.FontFile != "" {
		b.WriteString(":fontfile=" + escapeFilterPath(c.FontFile))
	}
	fmt.Fprintf(&b, ":fontsize=%d:fontcolor=white:box=1:boxcolor=%s:boxborderw=%d:x=(w-text_w)/2:y=%s",
		overlayFontSize, overlayBoxColor, overlayBoxPadding, overlayYExpression)
	return b.String()
}

// escapeDrawtext quotes overlay text for use as a drawtext option value.
// Inside filter quoting only the quote itself needs care; it is written as a
// close-escape-reopen sequence.
func escapeDrawtext(text string) string {
	return "'" + strings.ReplaceAll(text, `'`, `'\''`) + "'"
}

// escapeFilterPath quotes a path for use inside a filter_complex expression.
// Colons and quotes are significant to the filter parser.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, `'`, `\'`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	return "'" + path + "'"
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
