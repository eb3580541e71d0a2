package prompts

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Resolver is the registry of embedded prompts.
type Resolver struct {
	mu      sync.RWMutex
	prompts map[string]Prompt
	logger  *slog.Logger
}

// NewResolver creates an empty resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		prompts: make(map[string]Prompt),
		logger:  logger,
	}
}

// Register adds or replaces a prompt. Hash and Variables are computed when
// not provided.
func (r *Resolver) Register(p Prompt) {
	if p.Hash == "" {
		p.Hash = HashText(p.Text)
	}
	if p.Variables == nil {
		p.Variables = ExtractVariables(p.Text)
	}

	r.mu.Lock()
	r.prompts[p.Key] = p
	r.mu.Unlock()
	r.logger.Debug("registered prompt", "key", p.Key, "vars", p.Variables)
}

// Get returns the prompt registered under key.
func (r *Resolver) Get(key string) (Prompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prompts[key]
	return p, ok
}

// All returns every registered prompt ordered by key.
func (r *Resolver) All() []Prompt {
	r.mu.RLock()
	result := make([]Prompt, 0, len(r.prompts))
	for _, p := range r.prompts {
		result = append(result, p)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Render executes the prompt registered under key with data.
func (r *Resolver) Render(key string, data any) (string, error) {
	p, ok := r.Get(key)
	if !ok {
		return "", fmt.Errorf("prompt not found: %s", key)
	}
	t, err := Parse(key, p.Text)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w", key, err)
	}
	return Execute(t, data)
}
