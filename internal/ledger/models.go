package ledger

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a render job.
type Status string

const (
	StatusPending      Status = "pending"
	StatusSplitting    Status = "splitting"
	StatusSynthesizing Status = "synthesizing"
	StatusImaging      Status = "imaging"
	StatusTiming       Status = "timing"
	StatusComposing    Status = "composing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusSplitting,
	StatusSynthesizing,
	StatusImaging,
	StatusTiming,
	StatusComposing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether value names a known job status.
func ValidStatus(value string) bool {
	_, ok := statusSet[Status(strings.TrimSpace(value))]
	return ok
}

// Terminal reports whether the status ends the job lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job records one video render from input text to finished MP4.
type Job struct {
	ID              string
	Title           string
	InputPath       string
	Status          Status
	SceneCount      int
	OutputPath      string
	DurationSeconds float64
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}
