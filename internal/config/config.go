// Package config provides application configuration with multi-source
// priority: environment variables override the config file
// (~/.wildscope/config.yaml or ./config.yaml), which overrides defaults.
//
// Sensitive values (API keys) are never logged; String() masks them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors, checked with errors.Is.
var (
	// ErrMissingAPIKey indicates the inference API key is not set.
	ErrMissingAPIKey = errors.New("missing inference API key")

	// ErrMissingModel indicates the primary model is not set.
	ErrMissingModel = errors.New("missing primary model")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxNewTokens indicates max_new_tokens is out of range.
	ErrInvalidMaxNewTokens = errors.New("invalid max new tokens")

	// ErrInvalidRetries indicates the retry count is out of range.
	ErrInvalidRetries = errors.New("invalid retries")
)

// InferenceConfig selects the hosted inference endpoint and the model
// fallback chain (primary, then smaller models on resource exhaustion).
type InferenceConfig struct {
	BaseURL        string `mapstructure:"base_url" json:"base_url"`
	APIKey         string `mapstructure:"api_key" json:"api_key"` // SENSITIVE
	PrimaryModel   string `mapstructure:"primary_model" json:"primary_model"`
	SecondaryModel string `mapstructure:"secondary_model" json:"secondary_model"`
	TertiaryModel  string `mapstructure:"tertiary_model" json:"tertiary_model"`
	Retries        int    `mapstructure:"retries" json:"retries"`
	DelaySeconds   int    `mapstructure:"delay_seconds" json:"delay_seconds"`
}

// Models returns the fallback chain in order, skipping unset tiers.
func (c InferenceConfig) Models() []string {
	var models []string
	for _, m := range []string{c.PrimaryModel, c.SecondaryModel, c.TertiaryModel} {
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}

// GenerationConfig holds the per-request generation parameters.
type GenerationConfig struct {
	MaxNewTokens int     `mapstructure:"max_new_tokens" json:"max_new_tokens"`
	Temperature  float64 `mapstructure:"temperature" json:"temperature"`
	Sample       bool    `mapstructure:"sample" json:"sample"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" json:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`
}

// EnrichmentConfig holds the optional image/paper lookup settings.
type EnrichmentConfig struct {
	PixabayAPIKey  string `mapstructure:"pixabay_api_key" json:"pixabay_api_key"` // SENSITIVE
	PixabayBaseURL string `mapstructure:"pixabay_base_url" json:"pixabay_base_url"`
	ScholarBaseURL string `mapstructure:"scholar_base_url" json:"scholar_base_url"`
}

// RetrievalConfig points at the external RAG service. Empty disables the
// retrieval proxy endpoint.
type RetrievalConfig struct {
	BaseURL string `mapstructure:"base_url" json:"base_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" json:"level"` // debug, info, warn, error
	JSON  bool   `mapstructure:"json" json:"json"`
}

// Config is the full application configuration.
type Config struct {
	Inference  InferenceConfig  `mapstructure:"inference" json:"inference"`
	Generation GenerationConfig `mapstructure:"generation" json:"generation"`
	Server     ServerConfig     `mapstructure:"server" json:"server"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment" json:"enrichment"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval" json:"retrieval"`
	Log        LogConfig        `mapstructure:"log" json:"log"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".wildscope")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env take over.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers the default value for every key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("inference.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("inference.primary_model", "google/flan-ul2")
	v.SetDefault("inference.secondary_model", "google/flan-t5-large")
	v.SetDefault("inference.tertiary_model", "google/flan-t5-base")
	v.SetDefault("inference.retries", 3)
	v.SetDefault("inference.delay_seconds", 5)

	v.SetDefault("generation.max_new_tokens", 250)
	v.SetDefault("generation.temperature", 0.8)
	v.SetDefault("generation.sample", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("server.rate_burst", 60)

	v.SetDefault("enrichment.pixabay_base_url", "https://pixabay.com/api/")
	v.SetDefault("enrichment.scholar_base_url", "https://api.semanticscholar.org/graph/v1")

	v.SetDefault("retrieval.base_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// bindEnv wires environment variables. WILDSCOPE_INFERENCE_API_KEY etc.
// map onto the dotted keys; the two provider keys also accept their
// conventional unprefixed names.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("WILDSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional provider variable names take effect too.
	_ = v.BindEnv("inference.api_key", "WILDSCOPE_INFERENCE_API_KEY", "HUGGINGFACE_API_KEY")
	_ = v.BindEnv("enrichment.pixabay_api_key", "WILDSCOPE_ENRICHMENT_PIXABAY_API_KEY", "PIXABAY_API_KEY")
}

// Validate checks the fields required to serve requests.
func (c *Config) Validate() error {
	if c.Inference.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Inference.PrimaryModel == "" {
		return ErrMissingModel
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("%w: %v (want 0..2)", ErrInvalidTemperature, c.Generation.Temperature)
	}
	if c.Generation.MaxNewTokens < 1 || c.Generation.MaxNewTokens > 4096 {
		return fmt.Errorf("%w: %d (want 1..4096)", ErrInvalidMaxNewTokens, c.Generation.MaxNewTokens)
	}
	if c.Inference.Retries < 1 || c.Inference.Retries > 10 {
		return fmt.Errorf("%w: %d (want 1..10)", ErrInvalidRetries, c.Inference.Retries)
	}
	return nil
}

// SlogLevel converts the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// String renders the configuration for logs with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"inference{base_url: %s, api_key: %s, models: %v, retries: %d, delay: %ds} server{addr: %s}",
		c.Inference.BaseURL,
		mask(c.Inference.APIKey),
		c.Inference.Models(),
		c.Inference.Retries,
		c.Inference.DelaySeconds,
		c.Server.Addr,
	)
}

// mask hides all but the first four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
