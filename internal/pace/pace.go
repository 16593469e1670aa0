package pace

import (
	"strings"
	"unicode"

	"reel/internal/language"
)

// Default speaking rates. These match typical narration pacing for the two
// script families and can be tuned per voice through configuration.
const (
	DefaultWordsPerMinute = 150.0
	DefaultCharsPerMinute = 350.0
)

// Estimator converts text spans into estimated spoken durations using
// language-specific speaking rates. The zero value is not usable; construct
// with New so config-provided rates are validated.
type Estimator struct {
	wordsPerMinute float64
	charsPerMinute float64
}

// New returns an Estimator with the given rates. Non-positive rates fall
// back to the defaults.
func New(wordsPerMinute, charsPerMinute float64) Estimator {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	if charsPerMinute <= 0 {
		charsPerMinute = DefaultCharsPerMinute
	}
	return Estimator{wordsPerMinute: wordsPerMinute, charsPerMinute: charsPerMinute}
}

// Default returns an Estimator using the default speaking rates.
func Default() Estimator {
	return New(DefaultWordsPerMinute, DefaultCharsPerMinute)
}

// EstimateDuration returns the estimated spoken duration of text in seconds.
// CJK-dominant text is paced by non-whitespace rune count, everything else
// by word count.
func (e Estimator) EstimateDuration(text string) float64 {
	if language.Detect(text) == language.ScriptCJK {
		chars := 0
		for _, r := range text {
			if !unicode.IsSpace(r) {
				chars++
			}
		}
		return (float64(chars) / e.charsPerMinute) * 60.0
	}
	words := len(strings.Fields(text))
	return (float64(words) / e.wordsPerMinute) * 60.0
}

// TruncateToDuration trims text so its estimated duration fits maxDuration.
// The cut lands on the last terminal punctuation mark inside the sliced text
// when that mark sits past the midpoint; otherwise the raw unit slice is
// returned. The result is best effort: the reported duration after
// truncation may still drift slightly around maxDuration.
func (e Estimator) TruncateToDuration(text string, maxDuration float64) string {
	if e.EstimateDuration(text) <= maxDuration {
		return text
	}

	var truncated string
	if language.Detect(text) == language.ScriptCJK {
		maxChars := int((maxDuration / 60.0) * e.charsPerMinute)
		runes := []rune(text)
		if maxChars < len(runes) {
			truncated = string(runes[:maxChars])
		} else {
			truncated = text
		}
	} else {
		maxWords := int((maxDuration / 60.0) * e.wordsPerMinute)
		words := strings.Fields(text)
		if maxWords < len(words) {
			words = words[:maxWords]
		}
		truncated = strings.Join(words, " ")
	}

	return snapToSentenceEnd(truncated)
}

// Terminal punctuation marks that end a complete sentence in either script.
var sentenceEnders = []string{"。", ".", "！", "?", "？", "!"}

// snapToSentenceEnd cuts at the last sentence-ending mark when it falls past
// the midpoint of the span, keeping the mark itself.
func snapToSentenceEnd(text string) string {
	runes := []rune(text)
	last := -1
	for _, mark := range sentenceEnders {
		if idx := strings.LastIndex(text, mark); idx >= 0 {
			pos := len([]rune(text[:idx]))
			if pos > last {
				last = pos
			}
		}
	}
	if last > len(runes)/2 {
		return string(runes[:last+1])
	}
	return text
}
