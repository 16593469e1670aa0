package staging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanStaleRemovesOldDirectories(t *testing.T) {
	dir := t.TempDir()

	oldJob := filepath.Join(dir, "job-old")
	if err := os.Mkdir(oldJob, 0o755); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldJob, past, past); err != nil {
		t.Fatal(err)
	}

	newJob := filepath.Join(dir, "job-new")
	if err := os.Mkdir(newJob, 0o755); err != nil {
		t.Fatal(err)
	}

	lockPath := filepath.Join(dir, "reel.lock")
	if err := os.WriteFile(lockPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(lockPath, past, past); err != nil {
		t.Fatal(err)
	}

	result := CleanStale(dir, 24*time.Hour, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != oldJob {
		t.Fatalf("removed = %v, want [%s]", result.Removed, oldJob)
	}

	if _, err := os.Stat(newJob); err != nil {
		t.Errorf("recent directory removed: %v", err)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file removed: %v", err)
	}
}

func TestCleanStaleMissingDirectory(t *testing.T) {
	result := CleanStale(filepath.Join(t.TempDir(), "absent"), time.Hour, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v, want empty", result)
	}
}

func TestListDirectories(t *testing.T) {
	dir := t.TempDir()
	jobDir := filepath.Join(dir, "job-1")
	if err := os.Mkdir(jobDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(jobDir, "scene_000.mp3"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "reel.lock"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := ListDirectories(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 1 {
		t.Fatalf("got %d directories, want 1", len(dirs))
	}
	if dirs[0].Name != "job-1" || dirs[0].Size != 3 {
		t.Errorf("dir = %+v", dirs[0])
	}
}
