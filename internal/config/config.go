package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database locations.
type Paths struct {
	StagingDir   string `toml:"staging_dir"`
	OutputDir    string `toml:"output_dir"`
	LibraryDir   string `toml:"library_dir"`
	LogDir       string `toml:"log_dir"`
	LedgerPath   string `toml:"ledger_path"`
	ReadingsPath string `toml:"readings_path"`
}

// Video contains output video geometry and duration bounds.
type Video struct {
	Width              int     `toml:"width"`
	Height             int     `toml:"height"`
	FPS                int     `toml:"fps"`
	MinDurationSeconds float64 `toml:"min_duration_seconds"`
	MaxDurationSeconds float64 `toml:"max_duration_seconds"`
}

// TTS contains speech synthesis settings.
type TTS struct {
	Model  string  `toml:"model"`
	Voice  string  `toml:"voice"`
	Speed  float64 `toml:"speed"`
	Format string  `toml:"format"`
}

// ImageGen contains background image generation settings.
type ImageGen struct {
	Model       string `toml:"model"`
	Size        string `toml:"size"`
	Quality     string `toml:"quality"`
	StylePrefix string `toml:"style_prefix"`
}

// Narration contains pacing and subtitle display settings.
type Narration struct {
	WordsPerMinute    int     `toml:"words_per_minute"`
	CharsPerMinute    int     `toml:"chars_per_minute"`
	WordsPerChunk     int     `toml:"words_per_chunk"`
	MinDisplaySeconds float64 `toml:"min_display_seconds"`
}

// OpenAI contains API connection settings shared by TTS and image
// generation.
type OpenAI struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for reel.
//
// Configuration sections by subsystem:
//   - Paths: staging, output, image library, logs, and the job ledger
//   - Video: output geometry and narration duration bounds
//   - TTS: speech synthesis model and voice
//   - ImageGen: background image model and style
//   - Narration: pacing rates and subtitle display tuning
//   - OpenAI: shared API connection settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Video     Video     `toml:"video"`
	TTS       TTS       `toml:"tts"`
	ImageGen  ImageGen  `toml:"image_gen"`
	Narration Narration `toml:"narration"`
	OpenAI    OpenAI    `toml:"openai"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		if err := os.MkdirAll(c.Paths.LibraryDir, 0o755); err != nil {
			return fmt.Errorf("create library directory %q: %w", c.Paths.LibraryDir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.LedgerPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireOpenAI reports whether an API key is available for commands that
// call out to OpenAI. Offline commands (scenes, subtitles, library) skip it.
func (c *Config) RequireOpenAI() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reel/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'reel config init')", defaultPath)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for video composition.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for audio duration probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
