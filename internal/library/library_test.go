package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reel/internal/services"
)

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake image data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"001_kokkai", "a", "cat-photo", "a1_b2-c3"}
	for _, slug := range valid {
		if err := ValidateSlug(slug); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", slug, err)
		}
	}

	invalid := []string{"", "UPPER", "has space", "../escape", "trailing_", "-leading", "日本語"}
	for _, slug := range invalid {
		err := ValidateSlug(slug)
		if err == nil {
			t.Errorf("ValidateSlug(%q) succeeded, want error", slug)
			continue
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Errorf("ValidateSlug(%q) error is not ErrValidation: %v", slug, err)
		}
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	want := writeImage(t, dir, "001_tower.png")

	got, err := ResolvePath(dir, "001_tower")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if got != want {
		t.Errorf("ResolvePath = %q, want %q", got, want)
	}

	_, err = ResolvePath(dir, "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("missing slug error = %v, want ErrNotFound", err)
	}
}

func TestLoadMetaWithSidecar(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "002_shibuya.jpg")
	sidecarYAML := "tags:\n  - 渋谷\n  - night\ndescription: 渋谷の夜景\nsource: https://example.com\nadded: \"2026-08-01\"\n"
	if err := os.WriteFile(filepath.Join(dir, "002_shibuya.yml"), []byte(sidecarYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	meta, err := LoadMeta(dir, "002_shibuya")
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "渋谷" {
		t.Errorf("tags = %v", meta.Tags)
	}
	if meta.Description != "渋谷の夜景" {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.Added != "2026-08-01" {
		t.Errorf("added = %q", meta.Added)
	}
}

func TestLoadMetaWithoutSidecar(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "003_plain.webp")
	meta, err := LoadMeta(dir, "003_plain")
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if meta.Slug != "003_plain" || len(meta.Tags) != 0 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestListAndSearch(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "001_a.png")
	writeImage(t, dir, "002_b.jpg")
	if err := os.WriteFile(filepath.Join(dir, "001_a.yml"),
		[]byte("tags: [diet, anger]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "002_b.yml"),
		[]byte("tags: [diet, smile]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Non-image files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	all, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List returned %d images, want 2", len(all))
	}
	if all[0].Slug != "001_a" || all[1].Slug != "002_b" {
		t.Errorf("List order: %v, %v", all[0].Slug, all[1].Slug)
	}

	both, err := Search(dir, []string{"diet"})
	if err != nil {
		t.Fatal(err)
	}
	if len(both) != 2 {
		t.Errorf("Search(diet) = %d results, want 2", len(both))
	}

	one, err := Search(dir, []string{"Diet", "SMILE"})
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].Slug != "002_b" {
		t.Errorf("Search(diet, smile) = %v", one)
	}
}

func TestListMissingDir(t *testing.T) {
	list, err := List(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List = %v, want empty", list)
	}
}

func TestAdd(t *testing.T) {
	srcDir := t.TempDir()
	dir := t.TempDir()
	source := writeImage(t, srcDir, "Tokyo Tower.png")

	meta, err := Add(dir, source, AddOptions{Tags: []string{"tower"}, Description: "t"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if meta.Slug != "001_tokyo-tower" {
		t.Errorf("slug = %q, want 001_tokyo-tower", meta.Slug)
	}
	if _, err := os.Stat(meta.Path); err != nil {
		t.Errorf("copied image missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, meta.Slug+".yml")); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}

	// Second add auto-increments.
	source2 := writeImage(t, srcDir, "other.jpg")
	meta2, err := Add(dir, source2, AddOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if meta2.Slug != "002_other" {
		t.Errorf("second slug = %q, want 002_other", meta2.Slug)
	}

	// Duplicate slug is rejected.
	_, err = Add(dir, source, AddOptions{Slug: "001_tokyo-tower"})
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("duplicate add error = %v, want ErrValidation", err)
	}

	// Unsupported extension is rejected.
	bad := filepath.Join(srcDir, "doc.gif")
	if err := os.WriteFile(bad, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Add(dir, bad, AddOptions{}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("unsupported format error = %v, want ErrValidation", err)
	}
}
