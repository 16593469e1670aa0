package scenes

import (
	"errors"
	"strings"
	"testing"

	"reel/internal/services"
)

const sampleStoryboard = `# AIと働き方の未来

## シーン 1
**ナレーション**: AIが変える未来の働き方について解説します。
**映像**: 近未来のオフィスで人とロボットが並んで働く俯瞰ショット
**データ**: 導入企業 72%

## シーン 2
**ナレーション**: 企業の多くがAIを業務に導入し始めています。
**映像**: 会議室のスクリーンにグラフが映る様子

## まとめ

ここは本編に含めない補足メモ。
`

func TestParseStoryboard(t *testing.T) {
	list, err := StoryboardParser{}.Parse(sampleStoryboard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d scenes, want 2", len(list))
	}

	first := list[0]
	if first.Index != 0 {
		t.Errorf("first scene index = %d, want 0", first.Index)
	}
	if first.NarrationText != "AIが変える未来の働き方について解説します。" {
		t.Errorf("narration = %q", first.NarrationText)
	}
	if first.StatOverlay != "導入企業 72%" {
		t.Errorf("stat overlay = %q", first.StatOverlay)
	}
	if !strings.Contains(first.ImagePrompt, "俯瞰ショット") {
		t.Errorf("prompt does not use visual description: %q", first.ImagePrompt)
	}
	if !strings.HasPrefix(first.ImagePrompt, DefaultStylePrefix) {
		t.Errorf("prompt missing style prefix: %q", first.ImagePrompt)
	}
	if len(first.Words) == 0 {
		t.Error("first scene has no subtitle chunks")
	}

	second := list[1]
	if second.StatOverlay != "" {
		t.Errorf("second scene stat = %q, want empty", second.StatOverlay)
	}
	if strings.Contains(second.NarrationText, "補足メモ") {
		t.Errorf("trailing section leaked into scene: %q", second.NarrationText)
	}
}

func TestParseStoryboardEnglishHeaders(t *testing.T) {
	text := "## Scene 1\n**ナレーション**: First narration line.\n\n## Scene 2\n**ナレーション**: Second narration line.\n"
	list, err := StoryboardParser{}.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d scenes, want 2", len(list))
	}
}

func TestParseStoryboardFullWidthColon(t *testing.T) {
	text := "## シーン 1\n**ナレーション**： 全角コロンでも値が取れること。\n"
	list, err := StoryboardParser{}.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if list[0].NarrationText != "全角コロンでも値が取れること。" {
		t.Errorf("narration = %q", list[0].NarrationText)
	}
}

func TestParseStoryboardColonOnNextLine(t *testing.T) {
	text := "## シーン 1\n**ナレーション**\n: 折り返された行でも値が取れること。\n"
	list, err := StoryboardParser{}.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if list[0].NarrationText != "折り返された行でも値が取れること。" {
		t.Errorf("narration = %q", list[0].NarrationText)
	}
}

func TestParseStoryboardMissingNarration(t *testing.T) {
	text := "## シーン 1\n**映像**: ナレーションのないシーン\n"
	_, err := StoryboardParser{}.Parse(text)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "narration not found in scene 1") {
		t.Errorf("error message = %q", err)
	}
}

func TestParseStoryboardShortNarrationAccepted(t *testing.T) {
	list, err := StoryboardParser{}.Parse("## シーン 1\n**ナレーション**: テスト\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if list[0].NarrationText != "テスト" {
		t.Errorf("narration = %q", list[0].NarrationText)
	}
}

func TestParseStoryboardNoScenes(t *testing.T) {
	_, err := StoryboardParser{}.Parse("# タイトルだけの文書\n\nただの本文。\n")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestParseStoryboardLibraryImage(t *testing.T) {
	t.Run("valid slug", func(t *testing.T) {
		text := "## シーン 1\n**ナレーション**: 既存画像を使うシーン。\n**画像**: 001_tokyo-tower\n"
		list, err := StoryboardParser{}.Parse(text)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if list[0].LibraryImage != "001_tokyo-tower" {
			t.Errorf("library image = %q", list[0].LibraryImage)
		}
	})

	t.Run("invalid slug", func(t *testing.T) {
		text := "## シーン 1\n**ナレーション**: 既存画像を使うシーン。\n**画像**: ../escape\n"
		_, err := StoryboardParser{}.Parse(text)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("image wins over visual", func(t *testing.T) {
		text := "## シーン 1\n**ナレーション**: 両方あるシーン。\n**映像**: 夜景\n**画像**: skyline\n"
		list, err := StoryboardParser{}.Parse(text)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if list[0].LibraryImage != "skyline" {
			t.Errorf("library image = %q", list[0].LibraryImage)
		}
	})
}

func TestParseStoryboardFallbackPrompt(t *testing.T) {
	text := "## シーン 1\n**ナレーション**: 映像指定のないシーンです。\n"
	list, err := StoryboardParser{}.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(list[0].ImagePrompt, "Visual scene inspired by:") {
		t.Errorf("fallback prompt = %q", list[0].ImagePrompt)
	}
}

func TestParseStoryboardCustomPrefix(t *testing.T) {
	parser := StoryboardParser{StylePrefix: "Watercolor style. "}
	text := "## シーン 1\n**ナレーション**: スタイル指定のテスト。\n**映像**: 海辺の町\n"
	list, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.HasPrefix(list[0].ImagePrompt, "Watercolor style. ") {
		t.Errorf("prompt = %q", list[0].ImagePrompt)
	}
}

func TestIsStoryboard(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"japanese header", "## シーン 1\n本文", true},
		{"english header", "intro\n## Scene 2\n", true},
		{"bare scene word", "## Scene\n", true},
		{"scenery is not a header", "## Scenery of Kyoto\n", false},
		{"plain prose", "ただの文章です。\n\n次の段落。", false},
		{"h3 is not a header", "### シーン 1\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStoryboard(tt.input); got != tt.want {
				t.Errorf("IsStoryboard(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTitle(t *testing.T) {
	if got := ParseTitle("# 動画タイトル\n\n## シーン 1\n"); got != "動画タイトル" {
		t.Errorf("ParseTitle = %q", got)
	}
	if got := ParseTitle("## シーン 1\n本文"); got != "" {
		t.Errorf("ParseTitle without H1 = %q, want empty", got)
	}
}
