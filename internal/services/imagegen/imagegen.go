// Package imagegen produces background images for scenes, either by calling
// the OpenAI image API or by reusing assets from the local library.
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"reel/internal/config"
	"reel/internal/library"
	"reel/internal/logging"
	"reel/internal/scenes"
	"reel/internal/services"
)

// Generator wraps the OpenAI image endpoint plus the library fallback.
type Generator struct {
	api        openai.Client
	cfg        config.ImageGen
	libraryDir string
	logger     *slog.Logger
}

// New builds an image generator from application configuration.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.APIKey),
		option.WithMaxRetries(cfg.OpenAI.MaxRetries),
		option.WithRequestTimeout(time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return &Generator{
		api:        openai.NewClient(opts...),
		cfg:        cfg.ImageGen,
		libraryDir: cfg.Paths.LibraryDir,
		logger:     logging.NewComponentLogger(logger, "imagegen"),
	}
}

// SceneImageFilename returns the canonical per-scene image filename.
func SceneImageFilename(index int) string {
	return fmt.Sprintf("scene_%03d.png", index)
}

// Generate renders a single image from prompt and writes it to outputPath.
// The image model returns base64 PNG data; geometry fitting is left to the
// video compositor.
func (g *Generator) Generate(ctx context.Context, prompt, outputPath string) error {
	res, err := g.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:   openai.ImageModel(g.cfg.Model),
		Prompt:  prompt,
		Size:    openai.ImageGenerateParamsSize(g.cfg.Size),
		Quality: openai.ImageGenerateParamsQuality(g.cfg.Quality),
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "imagegen", "generate", "image request failed", err)
	}
	if len(res.Data) == 0 {
		return services.Wrap(services.ErrExternalTool, "imagegen", "generate", "image response carried no data", nil)
	}

	raw, err := base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "imagegen", "generate", "decode image payload", err)
	}
	if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "imagegen", "generate", "write image file", err)
	}
	return nil
}

// CopyLibraryImage resolves slug in the image library and copies the asset
// to outputPath unchanged. Scaling and cropping happen during composition.
func (g *Generator) CopyLibraryImage(slug, outputPath string) error {
	source, err := library.ResolvePath(g.libraryDir, slug)
	if err != nil {
		return err
	}
	in, err := os.Open(source)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "imagegen", "library copy", "open library image", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "imagegen", "library copy", "create image file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return services.Wrap(services.ErrExternalTool, "imagegen", "library copy", "copy library image", err)
	}
	return nil
}

// GenerateScenes produces one background per scene into dir. Scenes naming a
// library image skip generation entirely. Returns the image paths in scene
// order.
func (g *Generator) GenerateScenes(ctx context.Context, list []scenes.Scene, dir string) ([]string, error) {
	paths := make([]string, 0, len(list))
	for _, scene := range list {
		sceneCtx := services.WithScene(ctx, scene.Index)
		logger := logging.WithContext(sceneCtx, g.logger)

		path := filepath.Join(dir, SceneImageFilename(scene.Index))
		if scene.LibraryImage != "" {
			logger.Info("using library image",
				slog.Int("scene", scene.Index),
				slog.String("slug", scene.LibraryImage))
			if err := g.CopyLibraryImage(scene.LibraryImage, path); err != nil {
				return nil, err
			}
		} else {
			logger.Info("generating image",
				slog.Int("scene", scene.Index),
				slog.Int("total", len(list)),
				slog.String("model", g.cfg.Model))
			if err := g.Generate(sceneCtx, scene.ImagePrompt, path); err != nil {
				return nil, err
			}
		}
		paths = append(paths, path)
	}
	return paths, nil
}
