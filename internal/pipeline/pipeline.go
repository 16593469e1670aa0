// Package pipeline runs one render job end to end: scene splitting, speech
// synthesis, image generation, subtitle timing, and final composition. Each
// stage records its progress in the ledger so interrupted or failed jobs stay
// inspectable afterwards.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reel/internal/composer"
	"reel/internal/config"
	"reel/internal/ledger"
	"reel/internal/logging"
	"reel/internal/media/ffprobe"
	"reel/internal/pace"
	"reel/internal/readings"
	"reel/internal/scenes"
	"reel/internal/services"
	"reel/internal/services/imagegen"
	"reel/internal/services/tts"
	"reel/internal/subtitles"
)

// Pipeline wires the render stages together. Construct with New.
type Pipeline struct {
	cfg    *config.Config
	store  *ledger.Store
	speech *tts.Client
	images *imagegen.Generator
	comp   *composer.Composer
	logger *slog.Logger
}

// Options tunes a single run. The zero value renders with config defaults.
type Options struct {
	// OutputPath overrides the generated output location when non-empty.
	OutputPath string
	// Title overrides title detection when non-empty.
	Title string
	// KeepStaging leaves the job's staging directory in place on success.
	KeepStaging bool
}

// Result describes a completed render.
type Result struct {
	JobID           string
	Title           string
	SceneCount      int
	OutputPath      string
	SRTPath         string
	DurationSeconds float64
}

func New(cfg *config.Config, store *ledger.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		speech: tts.New(cfg, logger),
		images: imagegen.New(cfg, logger),
		comp:   composer.New(cfg, logger),
		logger: logger,
	}
}

// Run renders inputPath into a finished video. Only one render may run per
// staging directory at a time; a second invocation fails fast instead of
// queueing.
func (p *Pipeline) Run(ctx context.Context, inputPath string, opts Options) (*Result, error) {
	lock := flock.New(filepath.Join(p.cfg.Paths.StagingDir, "reel.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire render lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "lock",
			"another render is already running", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release render lock", logging.Error(err))
		}
	}()

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "read input",
			fmt.Sprintf("cannot read %s", inputPath), err)
	}
	text := string(raw)

	jobID := uuid.NewString()
	ctx = services.WithJobID(ctx, jobID)
	logger := logging.WithContext(ctx, p.logger)

	title := deriveTitle(text, inputPath, opts.Title)
	job, err := p.store.CreateJob(ctx, jobID, title, inputPath)
	if err != nil {
		return nil, err
	}
	logger.Info("render job started",
		slog.String("title", title),
		slog.String("input", inputPath))

	result, err := p.render(ctx, logger, job, text, opts)
	if err != nil {
		if ferr := p.store.MarkFailed(ctx, jobID, err); ferr != nil {
			logger.Error("failed to record job failure", logging.Error(ferr))
		}
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) render(ctx context.Context, logger *slog.Logger, job *ledger.Job, text string, opts Options) (*Result, error) {
	jobDir := filepath.Join(p.cfg.Paths.StagingDir, job.ID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	list, err := p.split(ctx, logger, job, text)
	if err != nil {
		return nil, err
	}

	audioPaths, err := p.synthesize(ctx, job, list, jobDir)
	if err != nil {
		return nil, err
	}

	imagePaths, err := p.generateImages(ctx, job, list, jobDir)
	if err != nil {
		return nil, err
	}

	durations, srtPath, err := p.timeSubtitles(ctx, logger, job, list, audioPaths, jobDir)
	if err != nil {
		return nil, err
	}

	outputPath, total, err := p.compose(ctx, logger, job, imagePaths, audioPaths, durations, scenes.Overlays(list), srtPath, opts)
	if err != nil {
		return nil, err
	}

	if !opts.KeepStaging {
		if err := os.RemoveAll(jobDir); err != nil {
			logger.Warn("failed to remove staging directory",
				slog.String("path", jobDir), logging.Error(err))
		}
		srtPath = ""
	}

	logger.Info("render job completed",
		slog.String("output", outputPath),
		slog.Int("scenes", len(list)),
		slog.Float64("duration_seconds", total))

	return &Result{
		JobID:           job.ID,
		Title:           job.Title,
		SceneCount:      len(list),
		OutputPath:      outputPath,
		SRTPath:         srtPath,
		DurationSeconds: total,
	}, nil
}

func (p *Pipeline) split(ctx context.Context, logger *slog.Logger, job *ledger.Job, text string) ([]scenes.Scene, error) {
	ctx = services.WithStage(ctx, "split")
	if err := p.store.UpdateStatus(ctx, job.ID, ledger.StatusSplitting); err != nil {
		return nil, err
	}

	var (
		list []scenes.Scene
		err  error
	)
	if scenes.IsStoryboard(text) {
		parser := scenes.StoryboardParser{
			StylePrefix: p.cfg.ImageGen.StylePrefix,
			Logger:      logging.NewComponentLogger(p.logger, "scenes"),
		}
		list, err = parser.Parse(text)
	} else {
		splitter := scenes.Splitter{
			Pace:        pace.New(float64(p.cfg.Narration.WordsPerMinute), float64(p.cfg.Narration.CharsPerMinute)),
			StylePrefix: p.cfg.ImageGen.StylePrefix,
		}
		list, err = splitter.Split(text, p.cfg.Video.MaxDurationSeconds)
	}
	if err != nil {
		return nil, err
	}

	if err := p.applyReadings(list, job.InputPath); err != nil {
		return nil, err
	}
	if err := p.store.SetSceneCount(ctx, job.ID, len(list)); err != nil {
		return nil, err
	}
	logging.WithContext(ctx, logger).Info("scenes ready", slog.Int("count", len(list)))
	return list, nil
}

// applyReadings substitutes pronunciation overrides into the text sent to
// speech synthesis. Subtitles keep the original surface forms.
func (p *Pipeline) applyReadings(list []scenes.Scene, inputPath string) error {
	path := ResolveReadingsPath(p.cfg.Paths.ReadingsPath, inputPath)
	dict, err := readings.Load(path)
	if err != nil {
		return err
	}
	if dict.Len() == 0 {
		return nil
	}
	for i := range list {
		list[i].TTSText = dict.Apply(list[i].NarrationText)
	}
	p.logger.Info("applied reading overrides",
		slog.String("path", path), slog.Int("entries", dict.Len()))
	return nil
}

func (p *Pipeline) synthesize(ctx context.Context, job *ledger.Job, list []scenes.Scene, jobDir string) ([]string, error) {
	ctx = services.WithStage(ctx, "tts")
	if err := p.store.UpdateStatus(ctx, job.ID, ledger.StatusSynthesizing); err != nil {
		return nil, err
	}
	return p.speech.SynthesizeScenes(ctx, list, jobDir)
}

func (p *Pipeline) generateImages(ctx context.Context, job *ledger.Job, list []scenes.Scene, jobDir string) ([]string, error) {
	ctx = services.WithStage(ctx, "images")
	if err := p.store.UpdateStatus(ctx, job.ID, ledger.StatusImaging); err != nil {
		return nil, err
	}
	return p.images.GenerateScenes(ctx, list, jobDir)
}

func (p *Pipeline) timeSubtitles(ctx context.Context, logger *slog.Logger, job *ledger.Job, list []scenes.Scene, audioPaths []string, jobDir string) ([]float64, string, error) {
	ctx = services.WithStage(ctx, "timing")
	if err := p.store.UpdateStatus(ctx, job.ID, ledger.StatusTiming); err != nil {
		return nil, "", err
	}
	logger = logging.WithContext(ctx, logger)

	durations := make([]float64, len(audioPaths))
	var total float64
	for i, path := range audioPaths {
		seconds, err := ffprobe.AudioDuration(ctx, p.cfg.FFprobeBinary(), path)
		if err != nil {
			return nil, "", err
		}
		durations[i] = seconds
		total += seconds
	}
	if total < p.cfg.Video.MinDurationSeconds {
		logger.Warn("narration shorter than configured minimum",
			slog.Float64("total_seconds", total),
			slog.Float64("min_seconds", p.cfg.Video.MinDurationSeconds))
	}

	entries := subtitles.Generate(scenes.Narrations(list), durations, subtitles.Options{
		WordsPerChunk:     p.cfg.Narration.WordsPerChunk,
		MinDisplaySeconds: p.cfg.Narration.MinDisplaySeconds,
	})
	srtPath := filepath.Join(jobDir, "subtitles.srt")
	if err := subtitles.WriteSRT(entries, srtPath); err != nil {
		return nil, "", err
	}
	for _, problem := range subtitles.Validate(srtPath, total) {
		logger.Warn("subtitle validation", slog.String("problem", problem))
	}
	logger.Info("subtitles written",
		slog.Int("cues", len(entries)),
		slog.Float64("total_seconds", total))
	return durations, srtPath, nil
}

func (p *Pipeline) compose(ctx context.Context, logger *slog.Logger, job *ledger.Job, imagePaths, audioPaths []string, durations []float64, overlays []string, srtPath string, opts Options) (string, float64, error) {
	ctx = services.WithStage(ctx, "compose")
	if err := p.store.UpdateStatus(ctx, job.ID, ledger.StatusComposing); err != nil {
		return "", 0, err
	}

	outputPath := strings.TrimSpace(opts.OutputPath)
	if outputPath == "" {
		outputPath = filepath.Join(p.cfg.Paths.OutputDir, OutputFilename(job.Title, job.CreatedAt))
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("create output directory: %w", err)
	}

	if err := p.comp.Compose(ctx, imagePaths, audioPaths, durations, overlays, srtPath, outputPath); err != nil {
		return "", 0, err
	}

	var total float64
	for _, d := range durations {
		total += d
	}
	if err := p.store.MarkCompleted(ctx, job.ID, outputPath, total); err != nil {
		return "", 0, err
	}
	return outputPath, total, nil
}

// ResolveReadingsPath picks the readings dictionary for a run: the configured
// path when set, otherwise readings.yml next to the input document.
func ResolveReadingsPath(configured, inputPath string) string {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return trimmed
	}
	return filepath.Join(filepath.Dir(inputPath), "readings.yml")
}

// OutputFilename builds a collision-resistant output name from the job title
// and start time.
func OutputFilename(title string, createdAt time.Time) string {
	return fmt.Sprintf("%s_%s.mp4", SanitizeFilename(title), createdAt.Format("20060102_150405"))
}

// SanitizeFilename reduces a title to a safe filename stem. Unicode letters
// and digits survive so Japanese titles stay readable.
func SanitizeFilename(title string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r == 0:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		case r == ' ' || r == '\t':
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		default:
			b.WriteRune(r)
			lastUnderscore = false
		}
	}
	stem := strings.Trim(b.String(), "_")
	if stem == "" {
		return "reel"
	}
	const maxStem = 80
	if runes := []rune(stem); len(runes) > maxStem {
		stem = string(runes[:maxStem])
	}
	return stem
}

func deriveTitle(text, inputPath, override string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	if title := scenes.ParseTitle(text); title != "" {
		return title
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
