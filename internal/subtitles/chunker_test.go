package subtitles

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitForSubtitlesLatin(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"words", "Hello world foo bar", []string{"Hello", "world", "foo", "bar"}},
		{"collapses whitespace", "one  two\nthree", []string{"one", "two", "three"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitForSubtitles(tt.input)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitForSubtitles(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitForSubtitlesCJK(t *testing.T) {
	t.Run("splits after punctuation", func(t *testing.T) {
		text := "これは日本語のテストです。字幕を正しく分割できるか確認します。"
		got := SplitForSubtitles(text)
		if len(got) < 2 {
			t.Fatalf("expected >= 2 chunks, got %v", got)
		}
		if got[0] != "これは日本語のテストです。" {
			t.Errorf("first chunk = %q", got[0])
		}
		if got[1] != "字幕を正しく分割できるか確認します。" {
			t.Errorf("second chunk = %q", got[1])
		}
	})

	t.Run("whitespace stripped before chunking", func(t *testing.T) {
		got := SplitForSubtitles("これは テストです。\n続きの文章です。")
		for _, chunk := range got {
			if strings.ContainsAny(chunk, " \n\t　") {
				t.Errorf("chunk contains whitespace: %q", chunk)
			}
		}
	})

	t.Run("long runs are re-cut", func(t *testing.T) {
		text := "これはとても長い文章で句読点がないまま続いていくような特殊なケースです。"
		got := SplitForSubtitles(text)
		if len(got) < 2 {
			t.Fatalf("expected long text to be cut, got %v", got)
		}
		for _, chunk := range got {
			if n := len([]rune(chunk)); n > mergeCeilingRunes {
				t.Errorf("chunk %q has %d runes, want <= %d", chunk, n, mergeCeilingRunes)
			}
		}
	})

	t.Run("short fragments merge", func(t *testing.T) {
		got := SplitForSubtitles("はい、了解。")
		if len(got) != 1 {
			t.Fatalf("expected one merged chunk, got %v", got)
		}
		if got[0] != "はい、了解。" {
			t.Errorf("merged chunk = %q", got[0])
		}
	})

	t.Run("short fragment stays standalone past ceiling", func(t *testing.T) {
		// 21-rune first chunk + 3-rune fragment would exceed the ceiling.
		long := strings.Repeat("あ", 20) + "、"
		got := SplitForSubtitles(long + "了解。")
		if len(got) != 2 {
			t.Fatalf("expected fragment to stay standalone, got %v", got)
		}
	})

	t.Run("non-empty input yields at least one chunk", func(t *testing.T) {
		if got := SplitForSubtitles("短い"); len(got) != 1 {
			t.Errorf("SplitForSubtitles(短い) = %v", got)
		}
	})
}

func TestFindBreak(t *testing.T) {
	t.Run("breaks after particle", func(t *testing.T) {
		runes := []rune("私たちはこの問題について深く考えなければならない")
		pos := findBreak(runes, maxChunkRunes)
		if pos <= 0 || pos > maxChunkRunes {
			t.Fatalf("break position %d out of range", pos)
		}
		if !breakAfter[runes[pos-1]] && pos != maxChunkRunes {
			t.Errorf("break at %d does not follow a break character: %q", pos, string(runes[pos-1]))
		}
	})

	t.Run("hard cut when no break point", func(t *testing.T) {
		runes := []rune(strings.Repeat("漢", 30))
		if pos := findBreak(runes, maxChunkRunes); pos != maxChunkRunes {
			t.Errorf("findBreak = %d, want hard cut at %d", pos, maxChunkRunes)
		}
	})

	t.Run("never splits bound pair", func(t *testing.T) {
		// Position the pair する so that す sits exactly at a candidate
		// break index; the search must skip it.
		runes := []rune("ああああああああああああああああああですする")
		pos := findBreak(runes, maxChunkRunes)
		if pos < len(runes) && noBreakPairs[[2]rune{runes[pos-1], runes[pos]}] {
			t.Errorf("break at %d splits bound pair %q%q", pos, string(runes[pos-1]), string(runes[pos]))
		}
	})

	t.Run("skips break before small kana", func(t *testing.T) {
		// て at index 18 is a break candidate but ョ follows it, so the
		// search must fall back to the earlier て at index 14.
		runes := []rune("ああああああああああああああてあああてョああ")
		pos := findBreak(runes, maxChunkRunes)
		if pos != 15 {
			t.Fatalf("findBreak = %d, want 15", pos)
		}
		if noBreakBefore[runes[pos]] {
			t.Errorf("break at %d lands before forbidden rune %q", pos, string(runes[pos]))
		}
	})
}
