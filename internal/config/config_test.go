package config

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	return &Config{
		Inference: InferenceConfig{
			BaseURL:      "https://api-inference.huggingface.co",
			APIKey:       "hf_secret_token",
			PrimaryModel: "google/flan-ul2",
			Retries:      3,
			DelaySeconds: 5,
		},
		Generation: GenerationConfig{
			MaxNewTokens: 250,
			Temperature:  0.8,
			Sample:       true,
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing API key",
			mutate:  func(c *Config) { c.Inference.APIKey = "" },
			wantErr: ErrMissingAPIKey,
		},
		{
			name:    "missing primary model",
			mutate:  func(c *Config) { c.Inference.PrimaryModel = "" },
			wantErr: ErrMissingModel,
		},
		{
			name:    "temperature too high",
			mutate:  func(c *Config) { c.Generation.Temperature = 2.5 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "negative temperature",
			mutate:  func(c *Config) { c.Generation.Temperature = -0.1 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "max new tokens zero",
			mutate:  func(c *Config) { c.Generation.MaxNewTokens = 0 },
			wantErr: ErrInvalidMaxNewTokens,
		},
		{
			name:    "retries out of range",
			mutate:  func(c *Config) { c.Inference.Retries = 0 },
			wantErr: ErrInvalidRetries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestModels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  InferenceConfig
		want []string
	}{
		{
			name: "full chain",
			cfg: InferenceConfig{
				PrimaryModel:   "a",
				SecondaryModel: "b",
				TertiaryModel:  "c",
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "unset tiers skipped",
			cfg:  InferenceConfig{PrimaryModel: "a", TertiaryModel: "c"},
			want: []string{"a", "c"},
		},
		{
			name: "primary only",
			cfg:  InferenceConfig{PrimaryModel: "a"},
			want: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.cfg.Models()
			if len(got) != len(tt.want) {
				t.Fatalf("Models() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Models()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	// Not parallel: manipulates the process environment.
	t.Setenv("WILDSCOPE_INFERENCE_API_KEY", "")
	t.Setenv("HUGGINGFACE_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Inference.PrimaryModel != "google/flan-ul2" {
		t.Errorf("primary model = %q", cfg.Inference.PrimaryModel)
	}
	if got := cfg.Inference.Models(); len(got) != 3 {
		t.Errorf("Models() = %v, want full default chain", got)
	}
	if cfg.Inference.Retries != 3 || cfg.Inference.DelaySeconds != 5 {
		t.Errorf("retry defaults = %d/%d, want 3/5",
			cfg.Inference.Retries, cfg.Inference.DelaySeconds)
	}
	if cfg.Generation.MaxNewTokens != 250 {
		t.Errorf("max_new_tokens = %d, want 250", cfg.Generation.MaxNewTokens)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Retrieval.BaseURL != "" {
		t.Errorf("retrieval base URL = %q, want unset", cfg.Retrieval.BaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HUGGINGFACE_API_KEY", "hf_from_env")
	t.Setenv("WILDSCOPE_INFERENCE_PRIMARY_MODEL", "google/flan-t5-xl")
	t.Setenv("WILDSCOPE_SERVER_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Inference.APIKey != "hf_from_env" {
		t.Errorf("api key = %q, want value from HUGGINGFACE_API_KEY", cfg.Inference.APIKey)
	}
	if cfg.Inference.PrimaryModel != "google/flan-t5-xl" {
		t.Errorf("primary model = %q", cfg.Inference.PrimaryModel)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &Config{Log: LogConfig{Level: tt.level}}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestStringMasksSecrets(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	s := cfg.String()

	if strings.Contains(s, "hf_secret_token") {
		t.Errorf("String() leaks the API key: %s", s)
	}
	if !strings.Contains(s, "hf_s****") {
		t.Errorf("String() = %s, want masked key prefix", s)
	}
}

func TestMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		secret string
		want   string
	}{
		{"", "(unset)"},
		{"ab", "****"},
		{"abcd", "****"},
		{"abcdefgh", "abcd****"},
	}

	for _, tt := range tests {
		if got := mask(tt.secret); got != tt.want {
			t.Errorf("mask(%q) = %q, want %q", tt.secret, got, tt.want)
		}
	}
}
