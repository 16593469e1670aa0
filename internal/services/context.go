package services

import "context"

type contextKey string

const (
	jobIDKey contextKey = "job_id"
	stageKey contextKey = "stage"
	sceneKey contextKey = "scene"
)

// WithJobID annotates context with the render job identifier.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the render job identifier if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithScene annotates context with a zero-based scene index.
func WithScene(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, sceneKey, index)
}

// SceneFromContext extracts the scene index if present.
func SceneFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(sceneKey).(int); ok {
		return v, true
	}
	return 0, false
}
