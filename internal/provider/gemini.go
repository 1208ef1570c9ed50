package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/secrets"
)

// DefaultGeminiModel is used when the configuration leaves the model
// empty.
const DefaultGeminiModel = "gemini-2.5-flash"

type geminiProvider struct {
	model       string
	temperature float64
	maxTokens   int
	src         secrets.Source
	keyName     string

	mu     sync.Mutex
	client llms.Model
}

func newGemini(step config.StepConfig, src secrets.Source, keyName string) *geminiProvider {
	model := step.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &geminiProvider{
		model:       model,
		temperature: step.Temperature,
		maxTokens:   step.MaxTokens,
		src:         src,
		keyName:     keyName,
	}
}

func (p *geminiProvider) Name() string  { return config.ProviderGemini }
func (p *geminiProvider) Model() string { return p.model }

func (p *geminiProvider) ensureClient(ctx context.Context) (llms.Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	key, err := p.src.Get(p.keyName)
	if err != nil {
		return nil, err
	}
	client, err := googleai.New(ctx, googleai.WithAPIKey(key), googleai.WithDefaultModel(p.model))
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

func (p *geminiProvider) Invoke(ctx context.Context, pr *prompt.Prompt, vars map[string]any) (string, error) {
	system, human, err := pr.Render(vars)
	if err != nil {
		return "", err
	}
	client, err := p.ensureClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}
	text, err := converse(ctx, client, system, human, p.temperature, p.maxTokens)
	if err != nil {
		return "", &GenerationError{Backend: p.Name(), Err: err}
	}
	return text, nil
}
