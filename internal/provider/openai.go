package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/secrets"
)

// DefaultOpenAIModel is used when the configuration leaves the model
// empty.
const DefaultOpenAIModel = "gpt-4o"

type openAIProvider struct {
	model       string
	temperature float64
	maxTokens   int
	src         secrets.Source
	keyName     string

	mu     sync.Mutex
	client llms.Model
}

func newOpenAI(step config.StepConfig, src secrets.Source, keyName string) *openAIProvider {
	model := step.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &openAIProvider{
		model:       model,
		temperature: step.Temperature,
		maxTokens:   step.MaxTokens,
		src:         src,
		keyName:     keyName,
	}
}

func (p *openAIProvider) Name() string  { return config.ProviderOpenAI }
func (p *openAIProvider) Model() string { return p.model }

func (p *openAIProvider) ensureClient() (llms.Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	key, err := p.src.Get(p.keyName)
	if err != nil {
		return nil, err
	}
	client, err := openai.New(openai.WithToken(key), openai.WithModel(p.model))
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

func (p *openAIProvider) Invoke(ctx context.Context, pr *prompt.Prompt, vars map[string]any) (string, error) {
	system, human, err := pr.Render(vars)
	if err != nil {
		return "", err
	}
	client, err := p.ensureClient()
	if err != nil {
		return "", fmt.Errorf("create openai client: %w", err)
	}
	text, err := converse(ctx, client, system, human, p.temperature, p.maxTokens)
	if err != nil {
		return "", &GenerationError{Backend: p.Name(), Err: err}
	}
	return text, nil
}
