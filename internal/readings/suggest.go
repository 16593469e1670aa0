package readings

import (
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"reel/internal/services"
)

// Suggester proposes dictionary entries for kanji words found in narration
// text, using morphological analysis to guess the reading.
type Suggester struct {
	tok *tokenizer.Tokenizer
}

// NewSuggester builds a suggester backed by the bundled IPA dictionary.
func NewSuggester() (*Suggester, error) {
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "readings", "suggest", "initialize tokenizer", err)
	}
	return &Suggester{tok: tok}, nil
}

// Suggest tokenizes text and returns an entry for every kanji-bearing
// surface the dictionary does not already cover, in first-occurrence order.
// Readings come back from the analyzer in katakana and are folded to
// hiragana, the convention the readings file uses.
func (s *Suggester) Suggest(text string, dict Dictionary) []Entry {
	var out []Entry
	seen := make(map[string]bool)
	for _, token := range s.tok.Tokenize(text) {
		surface := token.Surface
		if !containsKanji(surface) || dict.Has(surface) || seen[surface] {
			continue
		}
		reading, ok := token.Reading()
		if !ok || reading == "" || reading == "*" {
			continue
		}
		seen[surface] = true
		out = append(out, Entry{Surface: surface, Reading: katakanaToHiragana(reading)})
	}
	return out
}

func containsKanji(s string) bool {
	for _, r := range s {
		if (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0xF900 && r <= 0xFAFF) {
			return true
		}
	}
	return false
}

func katakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'ァ' && r <= 'ヶ' {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
