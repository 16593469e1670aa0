package subtitles

import (
	"strings"
	"unicode"

	"reel/internal/language"
)

const (
	// maxChunkRunes is the longest a CJK chunk may be before the break-point
	// search cuts it.
	maxChunkRunes = 20
	// mergeCeilingRunes caps a chunk after a short fragment is folded into
	// it, roughly two display lines.
	mergeCeilingRunes = 22
	// shortFragmentRunes is the length at or below which a chunk is folded
	// into its predecessor.
	shortFragmentRunes = 3
)

// chunkPunctuation marks an immediate split point; the mark stays with the
// preceding text.
func chunkPunctuation(r rune) bool {
	switch r {
	case '。', '、', '！', '？', '，':
		return true
	}
	return false
}

// SplitForSubtitles splits narration into subtitle-sized units. Latin text
// becomes individual words (grouped into display chunks later, at timing
// time); CJK text becomes final display chunks. Non-empty input always
// yields at least one unit.
func SplitForSubtitles(text string) []string {
	if language.Detect(text) != language.ScriptCJK {
		return strings.Fields(text)
	}

	clean := stripSpace(text)
	parts := splitAfterPunctuation(clean)

	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		runes := []rune(part)
		for len(runes) > maxChunkRunes {
			pos := findBreak(runes, maxChunkRunes)
			chunks = append(chunks, string(runes[:pos]))
			runes = runes[pos:]
		}
		if len(runes) > 0 {
			chunks = append(chunks, string(runes))
		}
	}

	return mergeShortChunks(chunks)
}

func stripSpace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitAfterPunctuation(text string) []string {
	var parts []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if chunkPunctuation(r) {
			parts = append(parts, string(runes[start:i+1]))
			start = i + 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

// mergeShortChunks folds orphaned fragments of three runes or fewer into the
// previous chunk when the combined length stays within the merge ceiling.
func mergeShortChunks(chunks []string) []string {
	if len(chunks) <= 1 {
		return chunks
	}
	merged := chunks[:1]
	for _, c := range chunks[1:] {
		prev := merged[len(merged)-1]
		if runeLen(c) <= shortFragmentRunes && runeLen(prev)+runeLen(c) <= mergeCeilingRunes {
			merged[len(merged)-1] = prev + c
		} else {
			merged = append(merged, c)
		}
	}
	return merged
}

func runeLen(s string) int {
	return len([]rune(s))
}

// Natural break points in Japanese: particles and common verb endings.
// A chunk may end immediately after one of these.
var breakAfter = map[rune]bool{
	'は': true, 'が': true, 'を': true, 'に': true, 'で': true,
	'と': true, 'も': true, 'へ': true, 'の': true, 'て': true,
	'た': true, 'だ': true, 'る': true, 'い': true, 'す': true,
}

// Characters that must never start a chunk: the prolonged sound mark, small
// kana, and closing brackets.
var noBreakBefore = map[rune]bool{
	'ー': true, 'ッ': true, 'ャ': true, 'ュ': true, 'ョ': true,
	'ァ': true, 'ィ': true, 'ゥ': true, 'ェ': true, 'ォ': true,
	'」': true, '）': true,
}

// Tightly bound pairs that must never be split across chunks.
var noBreakPairs = map[[2]rune]bool{
	{'す', 'る'}: true,
	{'い', 'う'}: true,
	{'で', 'し'}: true,
}

// findBreak searches backward from maxPos for the rightmost position that
// follows a natural break character, skipping positions that would strand a
// forbidden leading character or split a bound pair. The search window
// bottoms out at max(2·maxPos/5, 4); when nothing qualifies, the cut lands
// at maxPos itself.
func findBreak(runes []rune, maxPos int) int {
	minSearch := maxPos * 2 / 5
	if minSearch < 4 {
		minSearch = 4
	}
	for i := maxPos; i > minSearch; i-- {
		if !breakAfter[runes[i-1]] {
			continue
		}
		if i < len(runes) && noBreakBefore[runes[i]] {
			continue
		}
		if i < len(runes) && noBreakPairs[[2]rune{runes[i-1], runes[i]}] {
			continue
		}
		return i
	}
	return maxPos
}
