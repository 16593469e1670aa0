package scenes

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"reel/internal/library"
	"reel/internal/services"
)

// Storyboard field labels. Values follow the label and a half- or
// full-width colon, and run until the next labeled line.
const (
	labelNarration = "ナレーション"
	labelVisual    = "映像"
	labelStat      = "データ"
	labelImage     = "画像"
)

// StoryboardParser extracts scenes from an explicit per-scene storyboard
// document instead of inferring boundaries from prose.
type StoryboardParser struct {
	StylePrefix string
	Logger      *slog.Logger
}

// IsStoryboard reports whether text carries at least one scene header and
// should be parsed as a storyboard rather than split as prose.
func IsStoryboard(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if isSceneHeader(line) {
			return true
		}
	}
	return false
}

// ParseTitle returns the first H1 heading, or empty when there is none.
func ParseTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// Parse extracts scenes from storyboard text. Narration is mandatory per
// scene; visual description, stat overlay, and library image are optional.
// Any H2 header closes the preceding scene block, so trailing non-scene
// sections never leak into the final scene.
func (p StoryboardParser) Parse(text string) ([]Scene, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	blocks := sceneBlocks(text)
	if len(blocks) == 0 {
		return nil, services.Wrap(services.ErrValidation, "scenes", "parse storyboard", "no scene headers found", nil)
	}

	out := make([]Scene, 0, len(blocks))
	for i, block := range blocks {
		sceneNumber := i + 1

		narration, ok := extractField(block, labelNarration)
		if !ok || narration == "" {
			return nil, services.Wrap(services.ErrValidation, "scenes", "parse storyboard",
				fmt.Sprintf("narration not found in scene %d", sceneNumber), nil)
		}

		visual, _ := extractField(block, labelVisual)

		stat, _ := extractField(block, labelStat)
		if stat == "" {
			logger.Warn("storyboard scene has no stat overlay", "scene", sceneNumber)
		}

		libraryImage, hasImage := extractField(block, labelImage)
		if hasImage && libraryImage != "" {
			if err := library.ValidateSlug(libraryImage); err != nil {
				return nil, services.Wrap(services.ErrValidation, "scenes", "parse storyboard",
					fmt.Sprintf("scene %d library image", sceneNumber), err)
			}
			if visual != "" {
				logger.Warn("library image overrides visual description; prompt will not be generated",
					"scene", sceneNumber, "slug", libraryImage)
			}
		}

		prompt := GenerateImagePrompt(narration, p.StylePrefix)
		if visual != "" {
			prompt = visualPrompt(visual, p.StylePrefix)
		}

		scene := New(i, narration, prompt)
		scene.StatOverlay = stat
		scene.LibraryImage = libraryImage
		out = append(out, scene)
	}

	return out, nil
}

// sceneBlocks returns the text between each scene header and the next H2
// header of any kind.
func sceneBlocks(text string) []string {
	lines := strings.Split(text, "\n")

	var blocks []string
	var current *strings.Builder
	for _, line := range lines {
		switch {
		case isSceneHeader(line):
			if current != nil {
				blocks = append(blocks, current.String())
			}
			current = &strings.Builder{}
		case isH2(line):
			// A non-scene section closes the open block.
			if current != nil {
				blocks = append(blocks, current.String())
				current = nil
			}
		default:
			if current != nil {
				current.WriteString(line)
				current.WriteString("\n")
			}
		}
	}
	if current != nil {
		blocks = append(blocks, current.String())
	}
	return blocks
}

func isH2(line string) bool {
	return strings.HasPrefix(line, "##") && !strings.HasPrefix(line, "###")
}

// isSceneHeader matches "## シーン ..." and "## Scene ..." headers. The
// English form must not swallow words like "Scenery", so the marker has to
// end at a word boundary.
func isSceneHeader(line string) bool {
	if !isH2(line) {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "##"))
	if strings.HasPrefix(rest, "シーン") {
		return true
	}
	if strings.HasPrefix(rest, "Scene") {
		tail := strings.TrimPrefix(rest, "Scene")
		if tail == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(tail)
		return !unicode.IsLetter(r)
	}
	return false
}

// extractField returns the value following **label** and a colon, up to the
// next labeled line or the end of the block. The colon may be half- or
// full-width; width.Narrow folds the two forms together. Any whitespace may
// separate the label from its colon, including a line break.
func extractField(block, label string) (string, bool) {
	marker := "**" + label + "**"
	idx := strings.Index(block, marker)
	if idx < 0 {
		return "", false
	}
	rest := block[idx+len(marker):]
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	r, size := utf8.DecodeRuneInString(rest)
	if size == 0 || width.Narrow.String(string(r)) != ":" {
		return "", false
	}
	rest = rest[size:]

	if end := strings.Index(rest, "\n**"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}
