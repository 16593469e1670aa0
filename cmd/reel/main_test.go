package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()

	configPath := filepath.Join(base, "config.toml")
	body := fmt.Sprintf(`[paths]
staging_dir = %q
output_dir = %q
library_dir = %q
log_dir = %q
ledger_path = %q

[openai]
api_key = "test"
`,
		filepath.Join(base, "staging"),
		filepath.Join(base, "output"),
		filepath.Join(base, "library"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "ledger.db"),
	)
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestScenesCommand(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	inputPath := filepath.Join(base, "input.md")
	doc := "# Test Video\n\n" +
		"The first paragraph sets up the topic with enough words to stand on its own as a scene.\n\n" +
		"The second paragraph develops the argument further and adds some supporting detail.\n\n" +
		"The third paragraph wraps everything up with a conclusion the viewer can remember.\n"
	if err := os.WriteFile(inputPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, configPath, "scenes", inputPath)
	if err != nil {
		t.Fatalf("scenes: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Title: Test Video") {
		t.Errorf("missing title line:\n%s", out)
	}
	if !strings.Contains(out, "3 scenes") {
		t.Errorf("expected 3 scenes:\n%s", out)
	}
}

func TestScenesCommandStoryboard(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	inputPath := filepath.Join(base, "board.md")
	doc := "# 企画\n\n" +
		"## シーン1\n**ナレーション**: 最初の場面の説明です。\n**映像**: 朝の街並み\n**データ**: 導入企業 72%\n\n" +
		"## シーン2\n**ナレーション**: 次の場面に続きます。\n"
	if err := os.WriteFile(inputPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, configPath, "scenes", inputPath, "--prompts")
	if err != nil {
		t.Fatalf("scenes: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 scenes") {
		t.Errorf("expected 2 scenes:\n%s", out)
	}
	if !strings.Contains(out, "Stat") || !strings.Contains(out, "導入企業 72%") {
		t.Errorf("missing stat column:\n%s", out)
	}
	if !strings.Contains(out, "Scene 1 prompt:") {
		t.Errorf("missing prompts:\n%s", out)
	}
}

func TestSubtitlesCommandWithDurations(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	inputPath := filepath.Join(base, "board.md")
	doc := "## シーン1\n**ナレーション**: はい、了解。\n\n" +
		"## シーン2\n**ナレーション**: 続きの内容です。\n"
	if err := os.WriteFile(inputPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, configPath, "subtitles", inputPath, "--durations", "2.0,3.0")
	if err != nil {
		t.Fatalf("subtitles: %v\n%s", err, out)
	}

	srtPath := filepath.Join(base, "board.srt")
	raw, err := os.ReadFile(srtPath)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	srt := string(raw)
	if !strings.Contains(srt, "00:00:00,000 --> 00:00:02,000") {
		t.Errorf("first cue not aligned with audio:\n%s", srt)
	}
	if !strings.Contains(srt, "00:00:02,000 --> 00:00:05,000") {
		t.Errorf("second cue not aligned with audio:\n%s", srt)
	}
}

func TestSubtitlesCommandDurationMismatch(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	inputPath := filepath.Join(base, "board.md")
	doc := "## シーン1\n**ナレーション**: はい、了解。\n"
	if err := os.WriteFile(inputPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, configPath, "subtitles", inputPath, "--durations", "2.0,3.0")
	if err == nil || !strings.Contains(err.Error(), "2 durations for 1 scenes") {
		t.Fatalf("err = %v, want duration count mismatch", err)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, err := runCLI(t, configPath, "history")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No render jobs recorded") {
		t.Errorf("output:\n%s", out)
	}
}

func TestLibraryListEmpty(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, err := runCLI(t, configPath, "library", "list")
	if err != nil {
		t.Fatalf("library list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No images") {
		t.Errorf("output:\n%s", out)
	}
}

func TestLibraryAddAndSearch(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	imagePath := filepath.Join(base, "skyline.png")
	if err := os.WriteFile(imagePath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, configPath, "library", "add", imagePath,
		"--slug", "tokyo-skyline", "--tag", "city", "--tag", "night")
	if err != nil {
		t.Fatalf("library add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "tokyo-skyline") {
		t.Errorf("output:\n%s", out)
	}

	out, err = runCLI(t, configPath, "library", "search", "city")
	if err != nil {
		t.Fatalf("library search: %v\n%s", err, out)
	}
	if !strings.Contains(out, "tokyo-skyline") {
		t.Errorf("search missed image:\n%s", out)
	}
}

func TestReadingsShowEmpty(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, err := runCLI(t, configPath, "readings", "show")
	if err != nil {
		t.Fatalf("readings show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No readings found") {
		t.Errorf("output:\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v\n%s", err, out.String())
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	cmd = newRootCommand()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	body := fmt.Sprintf("[paths]\nstaging_dir = %q\noutput_dir = %q\nlibrary_dir = %q\nlog_dir = %q\nledger_path = %q\n",
		filepath.Join(base, "staging"),
		filepath.Join(base, "output"),
		filepath.Join(base, "library"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "ledger.db"),
	)
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "")

	inputPath := filepath.Join(base, "input.md")
	if err := os.WriteFile(inputPath, []byte("Some text."), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, configPath, "generate", inputPath)
	if err == nil {
		t.Fatal("expected missing API key error")
	}
}
