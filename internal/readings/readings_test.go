package readings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBasic(t *testing.T) {
	path := writeFile(t, "人名:\n  安野貴博: あんのたかひろ\n")
	dict, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dict.Len() != 1 {
		t.Fatalf("Len = %d, want 1", dict.Len())
	}
	if e := dict.Entries()[0]; e.Surface != "安野貴博" || e.Reading != "あんのたかひろ" {
		t.Errorf("entry = %+v", e)
	}
}

func TestLoadMultipleCategories(t *testing.T) {
	path := writeFile(t, "人名:\n  田中太郎: たなかたろう\n地名:\n  御茶ノ水: おちゃのみず\n")
	dict, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dict.Len() != 2 {
		t.Fatalf("Len = %d, want 2", dict.Len())
	}
	if !dict.Has("田中太郎") || !dict.Has("御茶ノ水") {
		t.Errorf("entries = %+v", dict.Entries())
	}
	// Categories flatten in file order.
	if dict.Entries()[0].Surface != "田中太郎" {
		t.Errorf("first entry = %+v", dict.Entries()[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	dict, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dict.Len() != 0 {
		t.Errorf("Len = %d, want 0", dict.Len())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dict, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dict.Len() != 0 {
		t.Errorf("Len = %d, want 0", dict.Len())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeFile(t, "人名: [あ\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		yaml     string
		expected string
	}{
		{
			"single replacement",
			"安野貴博氏が",
			"人名:\n  安野貴博: あんのたかひろ\n",
			"あんのたかひろ氏が",
		},
		{
			"multiple replacements",
			"安野貴博氏は御茶ノ水で演説した。",
			"人名:\n  安野貴博: あんのたかひろ\n地名:\n  御茶ノ水: おちゃのみず\n",
			"あんのたかひろ氏はおちゃのみずで演説した。",
		},
		{
			"no match",
			"テストテキスト",
			"人名:\n  安野貴博: あんのたかひろ\n",
			"テストテキスト",
		},
		{
			"empty dictionary",
			"安野貴博氏が",
			"",
			"安野貴博氏が",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := dict.Apply(tt.text); got != tt.expected {
				t.Errorf("Apply = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dict, err := Parse([]byte("人名:\n  田中太郎: たなかたろう\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	path := filepath.Join(t.TempDir(), "readings.yml")
	if err := Save(path, dict); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 1 || !loaded.Has("田中太郎") {
		t.Errorf("round trip lost entries: %+v", loaded.Entries())
	}
	if got := loaded.Apply("田中太郎です"); got != "たなかたろうです" {
		t.Errorf("Apply = %q", got)
	}
}

func TestNewDictionary(t *testing.T) {
	dict := NewDictionary([]Entry{
		{Surface: "東京", Reading: "とうきょう"},
		{Surface: "東京", Reading: "duplicate"},
		{Surface: "", Reading: "dropped"},
		{Surface: "大阪", Reading: "おおさか"},
	})
	if dict.Len() != 2 {
		t.Fatalf("Len = %d, want 2", dict.Len())
	}
	if got := dict.Apply("東京と大阪"); got != "とうきょうとおおさか" {
		t.Errorf("Apply = %q", got)
	}
}

func TestSuggest(t *testing.T) {
	sug, err := NewSuggester()
	if err != nil {
		t.Fatalf("NewSuggester: %v", err)
	}

	t.Run("kanji word gets a reading", func(t *testing.T) {
		entries := sug.Suggest("東京に行く", Dictionary{})
		var found bool
		for _, e := range entries {
			if e.Surface == "東京" {
				found = true
				if e.Reading != "とうきょう" {
					t.Errorf("reading = %q, want とうきょう", e.Reading)
				}
			}
		}
		if !found {
			t.Errorf("no suggestion for 東京 in %+v", entries)
		}
	})

	t.Run("covered surfaces are skipped", func(t *testing.T) {
		dict, err := Parse([]byte("地名:\n  東京: とうきょう\n"))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		for _, e := range sug.Suggest("東京に行く", dict) {
			if e.Surface == "東京" {
				t.Errorf("suggested an already covered surface: %+v", e)
			}
		}
	})

	t.Run("kana only text yields nothing", func(t *testing.T) {
		if entries := sug.Suggest("これはテストです", Dictionary{}); len(entries) != 0 {
			t.Errorf("entries = %+v, want none", entries)
		}
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		entries := sug.Suggest("東京と東京", Dictionary{})
		count := 0
		for _, e := range entries {
			if e.Surface == "東京" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("東京 suggested %d times, want 1", count)
		}
	})
}

func TestKatakanaToHiragana(t *testing.T) {
	if got := katakanaToHiragana("トウキョウ"); got != "とうきょう" {
		t.Errorf("got %q", got)
	}
	// The prolonged sound mark has no hiragana counterpart.
	if got := katakanaToHiragana("コーヒー"); got != "こーひー" {
		t.Errorf("got %q", got)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
