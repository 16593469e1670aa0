// Package tts synthesizes narration audio through the OpenAI speech API.
package tts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"reel/internal/config"
	"reel/internal/logging"
	"reel/internal/scenes"
	"reel/internal/services"
)

// Client wraps the OpenAI audio endpoint with reel's configuration and
// logging conventions.
type Client struct {
	api    openai.Client
	cfg    config.TTS
	logger *slog.Logger
}

// New builds a speech client from application configuration. Rate limits and
// transient server errors are retried by the underlying SDK.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.APIKey),
		option.WithMaxRetries(cfg.OpenAI.MaxRetries),
		option.WithRequestTimeout(time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return &Client{
		api:    openai.NewClient(opts...),
		cfg:    cfg.TTS,
		logger: logging.NewComponentLogger(logger, "tts"),
	}
}

// SceneAudioFilename returns the canonical per-scene audio filename.
func SceneAudioFilename(index int, format string) string {
	return fmt.Sprintf("scene_%03d.%s", index, format)
}

// Synthesize generates speech for text and writes it to outputPath.
func (c *Client) Synthesize(ctx context.Context, text, outputPath string) error {
	res, err := c.api.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(c.cfg.Model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(c.cfg.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(c.cfg.Format),
		Speed:          openai.Float(c.cfg.Speed),
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "tts", "synthesize", "speech request failed", err)
	}
	defer res.Body.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "tts", "synthesize", "create audio file", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, res.Body); err != nil {
		return services.Wrap(services.ErrExternalTool, "tts", "synthesize", "stream audio body", err)
	}
	return nil
}

// SynthesizeScenes generates one audio clip per scene into dir, using each
// scene's TTSText so readings substitutions reach the speech model. Returns
// the clip paths in scene order.
func (c *Client) SynthesizeScenes(ctx context.Context, list []scenes.Scene, dir string) ([]string, error) {
	paths := make([]string, 0, len(list))
	for _, scene := range list {
		sceneCtx := services.WithScene(ctx, scene.Index)
		logger := logging.WithContext(sceneCtx, c.logger)
		logger.Info("synthesizing narration",
			slog.Int("scene", scene.Index),
			slog.Int("total", len(list)),
			slog.String("voice", c.cfg.Voice))

		path := filepath.Join(dir, SceneAudioFilename(scene.Index, c.cfg.Format))
		if err := c.Synthesize(sceneCtx, scene.TTSText, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
