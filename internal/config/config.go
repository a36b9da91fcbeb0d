// Package config loads the kiosk configuration: built-in defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	orchestration "github.com/koscakluka/ema-kiosk/core"
	"github.com/koscakluka/ema-kiosk/core/archive"
	"github.com/koscakluka/ema-kiosk/core/chat"
	"github.com/koscakluka/ema-kiosk/core/input"
	"github.com/koscakluka/ema-kiosk/core/llms/gemini"
	"github.com/koscakluka/ema-kiosk/core/llms/openai"
	"github.com/koscakluka/ema-kiosk/core/presence"
)

// Chat providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Timing   orchestration.Timing `json:"timing" yaml:"timing"`
	Chat     ChatConfig           `json:"chat" yaml:"chat"`
	Presence PresenceConfig       `json:"presence" yaml:"presence"`
	Input    InputConfig          `json:"input" yaml:"input"`
	Archive  ArchiveConfig        `json:"archive" yaml:"archive"`
	Themes   ThemesConfig         `json:"themes" yaml:"themes"`
	Log      LogConfig            `json:"log" yaml:"log"`
}

type ChatConfig struct {
	Provider    string  `json:"provider" yaml:"provider" jsonschema:"enum=openai,enum=gemini,enum=none"`
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey      string  `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	BaseURL     string  `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Temperature float64 `json:"temperature" yaml:"temperature" jsonschema:"minimum=0,maximum=2"`
	MaxTokens   int     `json:"maxTokens" yaml:"maxTokens" jsonschema:"minimum=1"`
	// FeedbackWrapUp asks the viewer for a one-line review before the
	// farewell.
	FeedbackWrapUp bool         `json:"feedbackWrapUp,omitempty" yaml:"feedbackWrapUp,omitempty"`
	Script         *chat.Script `json:"script,omitempty" yaml:"script,omitempty"`
}

type PresenceConfig struct {
	Enabled     bool          `json:"enabled" yaml:"enabled"`
	URL         string        `json:"url" yaml:"url"`
	BaseDelay   time.Duration `json:"baseDelay" yaml:"baseDelay"`
	MaxDelay    time.Duration `json:"maxDelay" yaml:"maxDelay"`
	MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts" jsonschema:"minimum=1"`
	StaleAfter  time.Duration `json:"staleAfter" yaml:"staleAfter"`
}

type InputConfig struct {
	WheelThreshold float64       `json:"wheelThreshold" yaml:"wheelThreshold"`
	WheelCooldown  time.Duration `json:"wheelCooldown" yaml:"wheelCooldown"`
	SwipeThreshold float64       `json:"swipeThreshold" yaml:"swipeThreshold"`
}

type ArchiveConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Dir       string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	InMemory  bool     `json:"inMemory,omitempty" yaml:"inMemory,omitempty"`
	BatchSize int      `json:"batchSize" yaml:"batchSize" jsonschema:"minimum=1"`
	S3        S3Config `json:"s3" yaml:"s3"`
}

// S3Config points at any S3-compatible bucket. An empty bucket keeps
// transcripts local only.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix          string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region          string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty" yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" yaml:"secretAccessKey,omitempty"`
	PathStyle       bool   `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

func (c S3Config) Enabled() bool { return c.Bucket != "" }

type ThemesConfig struct {
	// Catalog is a YAML prompt catalog replacing the built-in one.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

type LogConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

func Default() *Config {
	return &Config{
		Timing: orchestration.DefaultTiming(),
		Chat: ChatConfig{
			Provider:    ProviderOpenAI,
			Model:       openai.DefaultModel,
			Temperature: openai.DefaultTemperature,
			MaxTokens:   openai.DefaultMaxTokens,
		},
		Presence: PresenceConfig{
			Enabled:     true,
			URL:         presence.DefaultURL,
			BaseDelay:   presence.DefaultBaseDelay,
			MaxDelay:    presence.DefaultMaxDelay,
			MaxAttempts: presence.DefaultMaxAttempts,
			StaleAfter:  presence.DefaultStaleAfter,
		},
		Input: InputConfig{
			WheelThreshold: input.DefaultWheelThreshold,
			WheelCooldown:  input.DefaultWheelCooldown,
			SwipeThreshold: input.DefaultSwipeThreshold,
		},
		Archive: ArchiveConfig{
			Enabled:   true,
			Dir:       "kiosk-archive",
			BatchSize: archive.DefaultBatchSize,
			S3:        S3Config{Prefix: "conversations", Region: "us-east-1"},
		},
		Log: LogConfig{File: "kiosk.log"},
	}
}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if cfg.Chat.Provider == ProviderGemini && cfg.Chat.Model == openai.DefaultModel {
		cfg.Chat.Model = gemini.DefaultModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, target *string) {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}

	switch c.Chat.Provider {
	case ProviderGemini:
		set("GEMINI_API_KEY", &c.Chat.APIKey)
	default:
		set("OPENAI_API_KEY", &c.Chat.APIKey)
	}
	set("KIOSK_CHAT_PROVIDER", &c.Chat.Provider)
	set("KIOSK_PRESENCE_URL", &c.Presence.URL)
	set("KIOSK_ARCHIVE_DIR", &c.Archive.Dir)
	set("KIOSK_S3_BUCKET", &c.Archive.S3.Bucket)
	set("KIOSK_S3_PREFIX", &c.Archive.S3.Prefix)
	set("KIOSK_S3_REGION", &c.Archive.S3.Region)
	set("KIOSK_S3_ENDPOINT", &c.Archive.S3.Endpoint)
	set("KIOSK_S3_ACCESS_KEY_ID", &c.Archive.S3.AccessKeyID)
	set("KIOSK_S3_SECRET_ACCESS_KEY", &c.Archive.S3.SecretAccessKey)

	if value, ok := lookup("KIOSK_S3_PATH_STYLE"); ok && value != "" {
		pathStyle, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: KIOSK_S3_PATH_STYLE: %v", ErrInvalid, err)
		}
		c.Archive.S3.PathStyle = pathStyle
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Chat.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("chat.provider %q is not one of openai, gemini, none", c.Chat.Provider))
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		errs = append(errs, fmt.Errorf("chat.temperature %v is outside [0, 2]", c.Chat.Temperature))
	}
	if c.Chat.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("chat.maxTokens must be positive"))
	}
	if c.Presence.Enabled && c.Presence.URL == "" {
		errs = append(errs, fmt.Errorf("presence.url is required when presence is enabled"))
	}
	if c.Presence.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("presence.maxAttempts must be positive"))
	}
	if c.Archive.Enabled && c.Archive.Dir == "" && !c.Archive.InMemory {
		errs = append(errs, fmt.Errorf("archive.dir is required unless archive.inMemory is set"))
	}
	if c.Archive.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("archive.batchSize must be positive"))
	}
	if c.Archive.S3.Enabled() && (c.Archive.S3.AccessKeyID == "") != (c.Archive.S3.SecretAccessKey == "") {
		errs = append(errs, fmt.Errorf("archive.s3 needs both an access key id and a secret"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ChatScript is the configured script, with the feedback wrap-up applied.
func (c *Config) ChatScript() chat.Script {
	script := chat.DefaultScript()
	if c.Chat.Script != nil {
		script = *c.Chat.Script
	}
	if c.Chat.FeedbackWrapUp && len(script.WrapUp) == 0 {
		script.WrapUp = chat.FeedbackWrapUp()
	}
	return script
}
