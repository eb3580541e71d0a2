package providers

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrMissingCredential is returned by Resolve for a provider that is
// configured and enabled but has no API key.
var ErrMissingCredential = errors.New("provider has no API key configured")

// Registry holds the configured LLM clients. It supports config-driven
// instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	llmClients map[string]registered
	missing    map[string]bool // enabled but keyless
	logger     *slog.Logger
}

type registered struct {
	client  LLMClient
	cfg     LLMProviderConfig
	limiter *RateLimiter
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]registered),
		missing:    make(map[string]bool),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name, outside of config.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = registered{client: client}
	delete(r.missing, name)
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// UnregisterLLM removes an LLM client by name.
func (r *Registry) UnregisterLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.llmClients, name)
	if r.logger != nil {
		r.logger.Info("unregistered LLM client", "name", name)
	}
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return entry.client, nil
}

// Resolve is GetLLM that distinguishes a keyless provider, returning
// ErrMissingCredential, from one that was never configured.
func (r *Registry) Resolve(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.llmClients[name]; ok {
		return entry.client, nil
	}
	if r.missing[name] {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingCredential)
	}
	return nil, fmt.Errorf("LLM client not found: %s", name)
}

// ListLLM returns all registered LLM client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasLLM checks if an LLM client is registered.
func (r *Registry) HasLLM(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.llmClients[name]
	return ok
}

// LLMClients returns a map of all registered LLM clients.
func (r *Registry) LLMClients() map[string]LLMClient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]LLMClient, len(r.llmClients))
	for name, entry := range r.llmClients {
		result[name] = entry.client
	}
	return result
}

// ProviderStatus describes one configured provider.
type ProviderStatus struct {
	Name      string             `json:"name"`
	Type      string             `json:"type,omitempty"`
	Model     string             `json:"model,omitempty"`
	Ready     bool               `json:"ready"`
	RateLimit *RateLimiterStatus `json:"rate_limit,omitempty"`
}

// Status lists registered and keyless providers, sorted by name.
func (r *Registry) Status() []ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProviderStatus, 0, len(r.llmClients)+len(r.missing))
	for name, entry := range r.llmClients {
		st := ProviderStatus{Name: name, Type: entry.cfg.Type, Model: entry.cfg.Model, Ready: true}
		if entry.limiter != nil {
			ls := entry.limiter.Status()
			st.RateLimit = &ls
		}
		out = append(out, st)
	}
	for name := range r.missing {
		out = append(out, ProviderStatus{Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	LLMProviders map[string]LLMProviderConfig
}

// LLMProviderConfig matches config.LLMProviderCfg with a resolved API key.
type LLMProviderConfig struct {
	Type      string // "openai", "openrouter"
	Model     string
	APIKey    string // Resolved API key
	BaseURL   string
	RateLimit int // Requests per minute, 0 = unlimited
	Timeout   time.Duration
	Enabled   bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers with API keys are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured are unregistered and providers
// with changed settings are rebuilt.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	r.missing = make(map[string]bool)

	for name, provCfg := range cfg.LLMProviders {
		if !provCfg.Enabled {
			continue
		}
		if provCfg.APIKey == "" {
			r.missing[name] = true
			continue
		}
		want[name] = true

		existing, hasExisting := r.llmClients[name]
		if hasExisting && existing.cfg == provCfg {
			continue
		}
		entry, err := createLLMClient(provCfg)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("skipping LLM provider", "name", name, "error", err)
			}
			delete(want, name)
			continue
		}
		r.llmClients[name] = entry
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated LLM client", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered LLM client", "name", name, "type", provCfg.Type)
			}
		}
	}

	for name := range r.llmClients {
		if !want[name] {
			delete(r.llmClients, name)
			if r.logger != nil {
				r.logger.Info("unregistered LLM client", "name", name)
			}
		}
	}
}

// createLLMClient creates an LLM client based on provider type.
func createLLMClient(cfg LLMProviderConfig) (registered, error) {
	var client LLMClient
	switch cfg.Type {
	case "", OpenAIName:
		client = NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
		})
	case OpenRouterName:
		client = NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
		})
	default:
		return registered{}, fmt.Errorf("unknown provider type %q", cfg.Type)
	}

	entry := registered{client: client, cfg: cfg}
	if cfg.RateLimit > 0 {
		entry.limiter = NewRateLimiter(cfg.RateLimit)
		entry.client = WithRateLimit(client, entry.limiter)
	}
	return entry, nil
}
