package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for datalens-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// CatalogPath points at the YAML catalog fixture loaded at startup.
	CatalogPath string `yaml:"catalog_path" env:"CATALOG_PATH" env-default:"catalog.yaml"`

	// AI provider configuration
	AI AIConfig `yaml:"ai"`

	// Assistant behavior configuration
	Assistant AssistantConfig `yaml:"assistant"`
}

// AIConfig holds the generative backend configuration.
type AIConfig struct {
	// Provider selects the generative backend: "openai" (any OpenAI-compatible
	// endpoint) or "anthropic". Empty disables the generative path entirely and
	// the assistant runs on the local responder from the start.
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL for OpenAI-compatible providers.
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://api.openai.com/v1"`

	// Model is the model name, e.g. "gpt-4o".
	Model string `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`

	// APIKey authenticates against the provider. Secret - not in YAML.
	APIKey string `yaml:"-" env:"AI_API_KEY"`

	// TimeoutSeconds bounds every generative call. A call that exceeds the
	// ceiling is treated as a provider failure.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"AI_TIMEOUT_SECONDS" env-default:"10"`
}

// Timeout returns the generative call ceiling as a duration.
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AssistantConfig holds local responder behavior settings.
type AssistantConfig struct {
	// LocalDelayMinMs / LocalDelayMaxMs bound the artificial latency of the
	// local responder, preserving the pacing callers expect from the
	// generative path. Set both to 0 to disable (tests do).
	LocalDelayMinMs int `yaml:"local_delay_min_ms" env:"ASSISTANT_LOCAL_DELAY_MIN_MS" env-default:"200"`
	LocalDelayMaxMs int `yaml:"local_delay_max_ms" env:"ASSISTANT_LOCAL_DELAY_MAX_MS" env-default:"800"`
}

// Load reads configuration from config.yaml with environment overrides.
// Missing config.yaml is not an error; env defaults apply.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown AI provider %q", c.AI.Provider)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai timeout must be positive, got %d", c.AI.TimeoutSeconds)
	}
	if c.Assistant.LocalDelayMinMs > c.Assistant.LocalDelayMaxMs {
		return fmt.Errorf("local delay min %dms exceeds max %dms",
			c.Assistant.LocalDelayMinMs, c.Assistant.LocalDelayMaxMs)
	}
	return nil
}
