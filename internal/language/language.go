package language

import (
	"strings"
	"unicode"
)

// Script tags a text span with the writing-system family that drives
// segmentation and chunking decisions.
type Script int

const (
	// ScriptLatin covers everything that is not CJK-dominant, including
	// empty input. Length is measured in whitespace-delimited words.
	ScriptLatin Script = iota
	// ScriptCJK covers Japanese/Chinese/Korean dominant text. Length is
	// measured in non-whitespace runes.
	ScriptCJK
)

// String returns the script name for logging.
func (s Script) String() string {
	if s == ScriptCJK {
		return "cjk"
	}
	return "latin"
}

// cjkRune reports whether r falls in one of the ranges counted toward
// CJK dominance: CJK punctuation, Hiragana, Katakana, CJK Unified
// Ideographs, and CJK Compatibility Ideographs.
func cjkRune(r rune) bool {
	switch {
	case r >= 0x3000 && r <= 0x303F:
		return true
	case r >= 0x3040 && r <= 0x309F:
		return true
	case r >= 0x30A0 && r <= 0x30FF:
		return true
	case r >= 0x4E00 && r <= 0x9FFF:
		return true
	case r >= 0xF900 && r <= 0xFAFF:
		return true
	}
	return false
}

// Detect classifies a span as CJK-dominant or Latin. A span is CJK-dominant
// when the CJK rune count strictly exceeds 20% of the total rune count, so
// empty input is always ScriptLatin.
func Detect(text string) Script {
	total := 0
	cjk := 0
	for _, r := range text {
		total++
		if cjkRune(r) {
			cjk++
		}
	}
	if float64(cjk) > float64(total)*0.2 {
		return ScriptCJK
	}
	return ScriptLatin
}

// Length returns the language-aware length of a span: non-whitespace rune
// count for CJK-dominant text, word count otherwise.
func Length(text string) int {
	if Detect(text) == ScriptCJK {
		count := 0
		for _, r := range text {
			if !unicode.IsSpace(r) {
				count++
			}
		}
		return count
	}
	return len(strings.Fields(text))
}
