package generation

import (
	"context"
	"errors"

	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/prompts"
	"github.com/jackzampolin/presence/internal/providers"
)

// ChatGenerator adapts a chat client to TextGenerator. Each GenerateText
// is one Chat call with a system message and the prompt as user message.
type ChatGenerator struct {
	Client   providers.LLMClient
	System   string
	Model    string
	Recorder *llmcall.Recorder
}

// Name returns the underlying client name.
func (g *ChatGenerator) Name() string {
	return g.Client.Name()
}

// GenerateText implements TextGenerator.
func (g *ChatGenerator) GenerateText(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	var msgs []providers.Message
	if g.System != "" {
		msgs = append(msgs, providers.Message{Role: "system", Content: g.System})
	}
	msgs = append(msgs, providers.Message{Role: "user", Content: prompt})

	result, err := g.Client.Chat(ctx, &providers.ChatRequest{
		Messages:    msgs,
		Model:       g.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	g.Recorder.Record(result, llmcall.RecordOptions{
		PromptKey:   llmcall.PromptKeyFrom(ctx),
		PromptHash:  prompts.HashText(prompt),
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", errors.New("chat client returned no result")
	}
	return result.Content, nil
}

// FromRegistry builds a generator for the named provider. It returns a nil
// generator when the provider is absent or has no key, which the Engine
// treats as a missing credential.
func FromRegistry(reg *providers.Registry, name, system string, recorder *llmcall.Recorder) (TextGenerator, error) {
	client, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	return &ChatGenerator{Client: client, System: system, Recorder: recorder}, nil
}
