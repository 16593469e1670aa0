package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeImageGen()
	c.normalizeNarration()
	c.normalizeOpenAI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		c.Paths.LibraryDir = defaultLibraryDir
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	// ReadingsPath stays empty when unset; the pipeline then looks for a
	// readings.yml beside the input document.
	if strings.TrimSpace(c.Paths.ReadingsPath) != "" {
		if c.Paths.ReadingsPath, err = expandPath(c.Paths.ReadingsPath); err != nil {
			return fmt.Errorf("paths.readings_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTTS() {
	c.TTS.Model = strings.TrimSpace(c.TTS.Model)
	if c.TTS.Model == "" {
		c.TTS.Model = defaultTTSModel
	}
	c.TTS.Voice = strings.ToLower(strings.TrimSpace(c.TTS.Voice))
	if c.TTS.Voice == "" {
		c.TTS.Voice = defaultTTSVoice
	}
	if c.TTS.Speed <= 0 {
		c.TTS.Speed = defaultTTSSpeed
	}
	c.TTS.Format = strings.ToLower(strings.TrimSpace(c.TTS.Format))
	if c.TTS.Format == "" {
		c.TTS.Format = defaultTTSFormat
	}
}

func (c *Config) normalizeImageGen() {
	c.ImageGen.Model = strings.TrimSpace(c.ImageGen.Model)
	if c.ImageGen.Model == "" {
		c.ImageGen.Model = defaultImageModel
	}
	c.ImageGen.Size = strings.ToLower(strings.TrimSpace(c.ImageGen.Size))
	if c.ImageGen.Size == "" {
		c.ImageGen.Size = defaultImageSize
	}
	c.ImageGen.Quality = strings.ToLower(strings.TrimSpace(c.ImageGen.Quality))
	if c.ImageGen.Quality == "" {
		c.ImageGen.Quality = defaultImageQuality
	}
	if c.ImageGen.StylePrefix == "" {
		c.ImageGen.StylePrefix = defaultStylePrefix
	}
}

func (c *Config) normalizeNarration() {
	if c.Narration.WordsPerMinute <= 0 {
		c.Narration.WordsPerMinute = defaultWordsPerMinute
	}
	if c.Narration.CharsPerMinute <= 0 {
		c.Narration.CharsPerMinute = defaultCharsPerMinute
	}
	if c.Narration.WordsPerChunk <= 0 {
		c.Narration.WordsPerChunk = defaultWordsPerChunk
	}
	if c.Narration.MinDisplaySeconds <= 0 {
		c.Narration.MinDisplaySeconds = defaultMinDisplaySeconds
	}
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		// .env is a convenience for development checkouts; absence is fine.
		_ = godotenv.Load()
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeoutSeconds
	}
	if c.OpenAI.MaxRetries < 0 {
		c.OpenAI.MaxRetries = defaultOpenAIMaxRetries
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
