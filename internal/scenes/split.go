package scenes

import (
	"regexp"
	"strings"

	"reel/internal/language"
	"reel/internal/pace"
	"reel/internal/services"
)

const (
	// minScenes and maxScenes bound the scene-count target for free prose.
	minScenes = 3
	maxScenes = 6

	// Minimum language-aware length for a segment to stand alone.
	minSegmentRunesCJK = 30
	minSegmentWords    = 10
)

// Splitter turns free prose into scenes. The zero value uses default pacing
// and the default style prefix.
type Splitter struct {
	Pace        pace.Estimator
	StylePrefix string
}

// Split segments text into scenes bounded by maxDuration of estimated
// narration. The trimmed input must be non-empty.
func (sp Splitter) Split(text string, maxDuration float64) ([]Scene, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, services.Wrap(services.ErrValidation, "scenes", "split", "input text is empty", nil)
	}

	est := sp.Pace
	if est == (pace.Estimator{}) {
		est = pace.Default()
	}
	text = est.TruncateToDuration(text, maxDuration)

	segments := splitParagraphs(text)

	// Too few paragraphs: fall back to sentences.
	if len(segments) < minScenes {
		var sentences []string
		for _, para := range segments {
			sentences = append(sentences, splitSentences(para)...)
		}
		segments = sentences
	}

	// Still nothing usable: the whole text is one scene.
	if len(segments) < 2 {
		segments = []string{text}
	}

	segments = groupToTarget(segments)
	segments = mergeShortSegments(segments)

	out := make([]Scene, 0, len(segments))
	for i, segment := range segments {
		out = append(out, New(i, segment, GenerateImagePrompt(segment, sp.StylePrefix)))
	}
	return out, nil
}

var paragraphBoundary = regexp.MustCompile(`\n\s*\n`)

func splitParagraphs(text string) []string {
	parts := paragraphBoundary.Split(strings.TrimSpace(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sentenceEnd reports runes that close a sentence for boundary purposes.
// A bare newline counts so storyboard-ish line breaks split too.
func sentenceEnd(r rune) bool {
	switch r {
	case '。', '．', '.', '！', '!', '？', '?', '\n':
		return true
	}
	return false
}

// splitSentences cuts after trailing terminal punctuation, discarding empty
// fragments and surrounding whitespace.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range strings.TrimSpace(text) {
		b.WriteRune(r)
		if sentenceEnd(r) {
			flush()
		}
	}
	flush()
	return out
}

// groupToTarget partitions segments into clamp(n, 3, 6) contiguous groups
// using evenly spaced fractional boundaries, newline-joining each group.
// Lists already within the target pass through unchanged.
func groupToTarget(segments []string) []string {
	n := len(segments)
	target := n
	if target < minScenes {
		target = minScenes
	}
	if target > maxScenes {
		target = maxScenes
	}
	if n <= target {
		return segments
	}
	grouped := make([]string, 0, target)
	for i := 0; i < target; i++ {
		start := i * n / target
		end := (i + 1) * n / target
		grouped = append(grouped, strings.Join(segments[start:end], "\n"))
	}
	return grouped
}

// mergeShortSegments folds segments below the language-aware minimum into
// their neighbors. The classification is taken once from the concatenation
// of all segments; heavily mixed-language input is undefined territory.
func mergeShortSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	minSize := minSegmentWords
	if language.Detect(strings.Join(segments, "")) == language.ScriptCJK {
		minSize = minSegmentRunesCJK
	}

	merged := []string{segments[0]}
	for _, seg := range segments[1:] {
		if segmentLength(merged[len(merged)-1]) < minSize {
			merged[len(merged)-1] += "\n" + seg
		} else {
			merged = append(merged, seg)
		}
	}

	// A trailing runt folds backward into its predecessor.
	if len(merged) > 1 && segmentLength(merged[len(merged)-1]) < minSize {
		merged[len(merged)-2] += "\n" + merged[len(merged)-1]
		merged = merged[:len(merged)-1]
	}

	return merged
}

// segmentLength is the language-aware length of one segment, classified per
// segment rather than with the document-wide decision.
func segmentLength(segment string) int {
	return language.Length(segment)
}
