package scenes

import (
	"reel/internal/subtitles"
)

// Scene is one narration/visual unit of the output video.
type Scene struct {
	// Index is zero-based and strictly sequential within a produced list.
	Index int
	// NarrationText is the text to be spoken. Never empty.
	NarrationText string
	// TTSText is what is actually sent to speech synthesis. Defaults to
	// NarrationText; the readings dictionary may override it.
	TTSText string
	// ImagePrompt drives background image generation.
	ImagePrompt string
	// Words holds the subtitle chunks derived from NarrationText at
	// construction time. CJK chunks are final display units; Latin chunks
	// are single words grouped later at timing time. Never empty while
	// NarrationText is non-empty.
	Words []string
	// StatOverlay is an optional on-screen statistic callout; empty means
	// none supplied.
	StatOverlay string
	// LibraryImage optionally selects a pre-existing library asset instead
	// of generating an image; empty means generate.
	LibraryImage string
}

// New constructs a Scene with its subtitle chunks precomputed and TTSText
// defaulted to the narration.
func New(index int, narration, imagePrompt string) Scene {
	return Scene{
		Index:         index,
		NarrationText: narration,
		TTSText:       narration,
		ImagePrompt:   imagePrompt,
		Words:         subtitles.SplitForSubtitles(narration),
	}
}

// Overlays collects the per-scene stat callouts for the composer. Scenes
// without one contribute an empty entry.
func Overlays(list []Scene) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.StatOverlay
	}
	return out
}

// Narrations adapts a scene list to the timing allocator's input shape.
func Narrations(list []Scene) []subtitles.Narration {
	out := make([]subtitles.Narration, len(list))
	for i, s := range list {
		out[i] = subtitles.Narration{Text: s.NarrationText, Words: s.Words}
	}
	return out
}
