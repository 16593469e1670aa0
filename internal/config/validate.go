package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable. The OpenAI API key is
// deliberately not required here; commands that call the API check it via
// RequireOpenAI so offline commands work without credentials.
func (c *Config) Validate() error {
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateImageGen(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVideo() error {
	if err := ensurePositiveMap(map[string]int{
		"video.width":  c.Video.Width,
		"video.height": c.Video.Height,
		"video.fps":    c.Video.FPS,
	}); err != nil {
		return err
	}
	if c.Video.MinDurationSeconds <= 0 {
		return errors.New("video.min_duration_seconds must be positive")
	}
	if c.Video.MaxDurationSeconds <= c.Video.MinDurationSeconds {
		return errors.New("video.max_duration_seconds must be greater than video.min_duration_seconds")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if c.TTS.Speed < 0.25 || c.TTS.Speed > 4.0 {
		return errors.New("tts.speed must be between 0.25 and 4.0")
	}
	switch c.TTS.Format {
	case "mp3", "opus", "aac", "flac", "wav", "pcm":
	default:
		return fmt.Errorf("tts.format %q is not supported (mp3, opus, aac, flac, wav, pcm)", c.TTS.Format)
	}
	return nil
}

var imageSizePattern = regexp.MustCompile(`^\d{3,4}x\d{3,4}$`)

func (c *Config) validateImageGen() error {
	if c.ImageGen.Size != "auto" && !imageSizePattern.MatchString(c.ImageGen.Size) {
		return fmt.Errorf("image_gen.size %q must look like 1024x1536 or be \"auto\"", c.ImageGen.Size)
	}
	switch c.ImageGen.Quality {
	case "low", "medium", "high", "auto":
	default:
		return fmt.Errorf("image_gen.quality %q is not supported (low, medium, high, auto)", c.ImageGen.Quality)
	}
	return nil
}

func (c *Config) validateNarration() error {
	if err := ensurePositiveMap(map[string]int{
		"narration.words_per_minute": c.Narration.WordsPerMinute,
		"narration.chars_per_minute": c.Narration.CharsPerMinute,
		"narration.words_per_chunk":  c.Narration.WordsPerChunk,
	}); err != nil {
		return err
	}
	if c.Narration.MinDisplaySeconds <= 0 {
		return errors.New("narration.min_display_seconds must be positive")
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.TimeoutSeconds <= 0 {
		return errors.New("openai.timeout_seconds must be positive")
	}
	if url := strings.TrimSpace(c.OpenAI.BaseURL); url != "" {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("openai.base_url %q must start with http:// or https://", url)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
