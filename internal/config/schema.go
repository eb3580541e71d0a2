package config

import (
	"time"

	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/history"
)

// Config holds presence configuration.
// Stored at: {home}/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Generation   GenerationCfg             `mapstructure:"generation" yaml:"generation"`
	History      HistoryCfg                `mapstructure:"history" yaml:"history"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
}

// LLMProviderCfg configures a text generation provider.
type LLMProviderCfg struct {
	Type      string `mapstructure:"type" yaml:"type"`       // "openai", "openrouter"
	Model     string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey    string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	BaseURL   string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	RateLimit int    `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per minute
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg selects the provider and sampling parameters.
type DefaultsCfg struct {
	LLMProvider    string  `mapstructure:"llm_provider" yaml:"llm_provider"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// GenerationCfg controls the generate action.
type GenerationCfg struct {
	// CooldownSeconds is the minimum gap between generations per session.
	CooldownSeconds int  `mapstructure:"cooldown_seconds" yaml:"cooldown_seconds"`
	RequireBullets  bool `mapstructure:"require_bullets" yaml:"require_bullets"`
}

// HistoryCfg bounds each session's history.
type HistoryCfg struct {
	Cap int `mapstructure:"cap" yaml:"cap"`
}

// ServerCfg is the HTTP listen address.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 60,
				Enabled:   true,
			},
			"openrouter": {
				Type:      "openrouter",
				Model:     "openai/gpt-4o-mini",
				APIKey:    "${OPENROUTER_API_KEY}",
				RateLimit: 60,
				Enabled:   false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:    "openai",
			Temperature:    generation.DefaultTemperature,
			MaxTokens:      generation.DefaultMaxTokens,
			TimeoutSeconds: 60,
		},
		Generation: GenerationCfg{
			CooldownSeconds: 8,
			RequireBullets:  true,
		},
		History: HistoryCfg{Cap: history.DefaultCap},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// GetLLMProvider returns a provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// Cooldown returns the generation cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Generation.CooldownSeconds) * time.Second
}

// Timeout returns the per-call generation timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Defaults.TimeoutSeconds) * time.Second
}
