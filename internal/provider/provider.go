// Package provider abstracts the hosted LLM backends used for the
// grammar, translation and adjustment steps. Each backend renders a
// prompt, submits a single system+human exchange through langchaingo
// and returns the trimmed response text.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/secrets"
)

// Provider runs rendered prompts against one LLM backend.
type Provider interface {
	// Name returns the backend identifier, e.g. "openai".
	Name() string
	// Model returns the effective model name, after defaulting.
	Model() string
	// Invoke renders p against vars, submits the exchange to the
	// backend and returns the trimmed response text.
	Invoke(ctx context.Context, p *prompt.Prompt, vars map[string]any) (string, error)
}

// Factory builds a Provider for a resolved step configuration.
type Factory func(step config.StepConfig) (Provider, error)

// GenerationError reports a failed backend call.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// New builds the Provider selected by step.Provider. An empty model
// falls back to the backend default. The underlying client is not
// created until the first Invoke and is reused afterwards.
func New(step config.StepConfig, src secrets.Source, keys config.Secrets) (Provider, error) {
	switch step.Provider {
	case config.ProviderOpenAI:
		return newOpenAI(step, src, keys.OpenAIKey), nil
	case config.ProviderGemini:
		return newGemini(step, src, keys.GeminiKey), nil
	default:
		return nil, &config.ProviderError{Value: step.Provider}
	}
}

// NewFactory binds New to a secret source.
func NewFactory(src secrets.Source, keys config.Secrets) Factory {
	return func(step config.StepConfig) (Provider, error) {
		return New(step, src, keys)
	}
}

// converse submits one system+human exchange and returns the trimmed
// response text.
func converse(ctx context.Context, client llms.Model, system, human string, temperature float64, maxTokens int) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, human),
	}
	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}
	resp, err := client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
