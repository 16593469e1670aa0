package config

const (
	defaultStagingDir       = "~/.local/share/reel/staging"
	defaultOutputDir        = "~/.local/share/reel/output"
	defaultLibraryDir       = "~/.local/share/reel/library"
	defaultLogDir           = "~/.local/share/reel/logs"
	defaultLedgerPath       = "~/.local/share/reel/ledger.db"
	defaultLogRetentionDays = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	defaultVideoWidth         = 1080
	defaultVideoHeight        = 1920
	defaultVideoFPS           = 24
	defaultMinDurationSeconds = 30.0
	defaultMaxDurationSeconds = 90.0

	defaultTTSModel  = "gpt-4o-mini-tts"
	defaultTTSVoice  = "nova"
	defaultTTSSpeed  = 1.0
	defaultTTSFormat = "mp3"

	defaultImageModel   = "gpt-image-1"
	defaultImageSize    = "1024x1536"
	defaultImageQuality = "medium"

	defaultWordsPerMinute    = 150
	defaultCharsPerMinute    = 350
	defaultWordsPerChunk     = 6
	defaultMinDisplaySeconds = 1.0

	defaultOpenAITimeoutSeconds = 120
	defaultOpenAIMaxRetries     = 3
)

// defaultStylePrefix mirrors the prompt builder's fallback so a generated
// sample config shows the real default.
const defaultStylePrefix = "Cinematic vertical composition, vibrant colors, high detail, dramatic lighting. "

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedgerPath,
		},
		Video: Video{
			Width:              defaultVideoWidth,
			Height:             defaultVideoHeight,
			FPS:                defaultVideoFPS,
			MinDurationSeconds: defaultMinDurationSeconds,
			MaxDurationSeconds: defaultMaxDurationSeconds,
		},
		TTS: TTS{
			Model:  defaultTTSModel,
			Voice:  defaultTTSVoice,
			Speed:  defaultTTSSpeed,
			Format: defaultTTSFormat,
		},
		ImageGen: ImageGen{
			Model:       defaultImageModel,
			Size:        defaultImageSize,
			Quality:     defaultImageQuality,
			StylePrefix: defaultStylePrefix,
		},
		Narration: Narration{
			WordsPerMinute:    defaultWordsPerMinute,
			CharsPerMinute:    defaultCharsPerMinute,
			WordsPerChunk:     defaultWordsPerChunk,
			MinDisplaySeconds: defaultMinDisplaySeconds,
		},
		OpenAI: OpenAI{
			TimeoutSeconds: defaultOpenAITimeoutSeconds,
			MaxRetries:     defaultOpenAIMaxRetries,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
