package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/secrets"
)

type fakeModel struct {
	response  string
	err       error
	noChoices bool

	calls    int
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages
	f.opts = llms.CallOptions{}
	for _, opt := range options {
		opt(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.noChoices {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.response}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func messageText(msg llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range msg.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func grammarPrompt(t *testing.T) *prompt.Prompt {
	t.Helper()
	set, err := prompt.NewSet("")
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	p, err := set.Get("grammar")
	if err != nil {
		t.Fatalf("get grammar prompt: %v", err)
	}
	return p
}

// --- factory tests ---

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		name      string
		step      config.StepConfig
		wantName  string
		wantModel string
	}{
		{"openai default model", config.StepConfig{Provider: config.ProviderOpenAI}, "openai", DefaultOpenAIModel},
		{"gemini default model", config.StepConfig{Provider: config.ProviderGemini}, "gemini", DefaultGeminiModel},
		{"explicit model kept", config.StepConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini"}, "openai", "gpt-4o-mini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.step, secrets.Static{}, config.Secrets{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, p.Name())
			}
			if p.Model() != tt.wantModel {
				t.Errorf("expected model %q, got %q", tt.wantModel, p.Model())
			}
		})
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New(config.StepConfig{Provider: "mistral"}, secrets.Static{}, config.Secrets{})
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
	var perr *config.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
}

func TestClientConstructionIsLazy(t *testing.T) {
	p, err := New(config.StepConfig{Provider: config.ProviderOpenAI}, secrets.Static{}, config.Secrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.(*openAIProvider).client != nil {
		t.Fatal("client must not be constructed before the first Invoke")
	}
}

// --- Invoke tests ---

func TestInvokeRendersAndTrims(t *testing.T) {
	fake := &fakeModel{response: "  Corrected text.\n"}
	p := &openAIProvider{model: "gpt-4o", temperature: 0.3, client: fake}

	got, err := p.Invoke(context.Background(), grammarPrompt(t), map[string]any{"input_text": "Fix me."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Corrected text." {
		t.Errorf("expected trimmed response, got %q", got)
	}
	if len(fake.messages) != 2 {
		t.Fatalf("expected system and human message, got %d", len(fake.messages))
	}
	if fake.messages[0].Role != schema.ChatMessageTypeSystem {
		t.Errorf("expected first message to be system, got %v", fake.messages[0].Role)
	}
	if !strings.Contains(messageText(fake.messages[1]), "Fix me.") {
		t.Errorf("human message missing input text: %q", messageText(fake.messages[1]))
	}
	if fake.opts.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", fake.opts.Temperature)
	}
	if fake.opts.MaxTokens != 0 {
		t.Errorf("max tokens must stay unset when zero, got %d", fake.opts.MaxTokens)
	}
}

func TestInvokePassesMaxTokens(t *testing.T) {
	fake := &fakeModel{response: "ok"}
	p := &geminiProvider{model: "gemini-2.5-flash", maxTokens: 1024, client: fake}

	if _, err := p.Invoke(context.Background(), grammarPrompt(t), map[string]any{"input_text": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.opts.MaxTokens != 1024 {
		t.Errorf("expected max tokens 1024, got %d", fake.opts.MaxTokens)
	}
}

func TestInvokeBackendError(t *testing.T) {
	cause := errors.New("boom")
	fake := &fakeModel{err: cause}
	p := &openAIProvider{model: "gpt-4o", client: fake}

	_, err := p.Invoke(context.Background(), grammarPrompt(t), map[string]any{"input_text": "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if gerr.Backend != "openai" {
		t.Errorf("expected backend openai, got %q", gerr.Backend)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to survive")
	}
}

func TestInvokeEmptyResponse(t *testing.T) {
	fake := &fakeModel{noChoices: true}
	p := &geminiProvider{model: "gemini-2.5-flash", client: fake}

	_, err := p.Invoke(context.Background(), grammarPrompt(t), map[string]any{"input_text": "x"})
	if err == nil {
		t.Fatal("expected error for empty response")
	}
	if !strings.Contains(err.Error(), "empty response") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestInvokeMissingVariable(t *testing.T) {
	fake := &fakeModel{response: "ok"}
	p := &openAIProvider{model: "gpt-4o", client: fake}

	_, err := p.Invoke(context.Background(), grammarPrompt(t), map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing variable")
	}
	if fake.calls != 0 {
		t.Error("backend must not be called when rendering fails")
	}
}

func TestInvokeMissingKey(t *testing.T) {
	p, err := New(
		config.StepConfig{Provider: config.ProviderOpenAI},
		secrets.Static{},
		config.Secrets{OpenAIKey: "OPENAI_API_KEY"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = p.Invoke(context.Background(), grammarPrompt(t), map[string]any{"input_text": "x"})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error should name the missing key, got %q", err.Error())
	}
}
