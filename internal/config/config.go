// Package config holds the typed configuration and the per-step
// resolver that turns layered settings into an effective StepConfig.
//
// Resolution semantics: provider, model, and temperature may be
// overridden per pipeline step and fall back to the llm globals;
// max_tokens is global-only. The global provider is validated at load
// time, each effective provider again at resolution time, so an
// invalid choice never reaches a backend call.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// SupportedProviders returns the valid provider identifiers.
func SupportedProviders() []string {
	return []string{ProviderOpenAI, ProviderGemini}
}

// ProviderError reports an LLM provider identifier outside the
// supported set.
type ProviderError struct {
	Value string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("unsupported LLM provider: %q (supported: %s)", e.Value, strings.Join(SupportedProviders(), ", "))
}

// Config is the full application configuration. It is read-only after
// load and safe to share across concurrent runs.
type Config struct {
	LLM         LLMConfig    `mapstructure:"llm" yaml:"llm"`
	Grammar     StepOverride `mapstructure:"grammar" yaml:"grammar,omitempty"`
	Translation StepOverride `mapstructure:"translation" yaml:"translation,omitempty"`
	Adjustment  StepOverride `mapstructure:"adjustment" yaml:"adjustment,omitempty"`
	Quality     Quality      `mapstructure:"quality" yaml:"quality"`
	Languages   Languages    `mapstructure:"languages" yaml:"languages"`
	MT          MT           `mapstructure:"mt" yaml:"mt"`
	Prompts     Prompts      `mapstructure:"prompts" yaml:"prompts"`
	Content     Content      `mapstructure:"content" yaml:"content"`
	Store       Store        `mapstructure:"store" yaml:"store"`
	Secrets     Secrets      `mapstructure:"secrets" yaml:"secrets"`
	Log         Log          `mapstructure:"log" yaml:"log"`
}

// LLMConfig holds the global generation defaults every step falls
// back to.
type LLMConfig struct {
	Provider       string  `mapstructure:"provider" yaml:"provider"`
	Model          string  `mapstructure:"model" yaml:"model,omitempty"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens,omitempty"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the per-call generation timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StepOverride carries optional per-step settings. Temperature is a
// pointer so an explicit 0.0 override is distinguishable from "unset".
type StepOverride struct {
	Provider    string   `mapstructure:"provider" yaml:"provider,omitempty"`
	Model       string   `mapstructure:"model" yaml:"model,omitempty"`
	Temperature *float64 `mapstructure:"temperature" yaml:"temperature,omitempty"`
}

// Quality configures the length-equivalence gate for the adjustment
// stage.
type Quality struct {
	Tolerance    float64 `mapstructure:"tolerance" yaml:"tolerance"`
	UseSyllables bool    `mapstructure:"use_syllables" yaml:"use_syllables"`
}

// Languages names the default source/target languages: the
// segmentation codes plus the human-readable names used in prompts.
// Source and Target also key glossary and translation-memory lookups.
type Languages struct {
	Source     string `mapstructure:"source" yaml:"source"`
	Target     string `mapstructure:"target" yaml:"target"`
	InputName  string `mapstructure:"input_name" yaml:"input_name"`
	OutputName string `mapstructure:"output_name" yaml:"output_name"`
}

// MT configures the machine-translation collaborator used by the
// 3-step workflow.
type MT struct {
	Service string `mapstructure:"service" yaml:"service"`
	Target  string `mapstructure:"target" yaml:"target"`
	DeepL   DeepL  `mapstructure:"deepl" yaml:"deepl"`
	Google  Google `mapstructure:"google" yaml:"google"`
}

type DeepL struct {
	URL            string `mapstructure:"url" yaml:"url"`
	Context        string `mapstructure:"context" yaml:"context,omitempty"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

func (c DeepL) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type Google struct {
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file,omitempty"`
}

type Prompts struct {
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// Content locates the document tree that container locators resolve
// against.
type Content struct {
	Root string `mapstructure:"root" yaml:"root"`
}

type Store struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Secrets maps each backend to the environment variable holding its
// API key.
type Secrets struct {
	OpenAIKey string `mapstructure:"openai_key" yaml:"openai_key"`
	GeminiKey string `mapstructure:"gemini_key" yaml:"gemini_key"`
	DeepLKey  string `mapstructure:"deepl_key" yaml:"deepl_key"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StepConfig is the effective, fully resolved configuration for one
// pipeline step. Immutable once resolved.
type StepConfig struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Resolve produces the effective StepConfig for a step ("grammar",
// "translation", "adjustment", or "" for the globals). Provider, model
// and temperature use the step override when present, the llm globals
// otherwise; max_tokens passes through from the globals unconditionally.
// The effective provider is validated here, before any client is built.
func (c *Config) Resolve(step string) (StepConfig, error) {
	var o StepOverride
	switch step {
	case "grammar":
		o = c.Grammar
	case "translation":
		o = c.Translation
	case "adjustment":
		o = c.Adjustment
	case "":
	default:
		return StepConfig{}, fmt.Errorf("unknown pipeline step %q", step)
	}

	out := StepConfig{
		Provider:    c.LLM.Provider,
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
	if o.Provider != "" {
		out.Provider = o.Provider
	}
	if o.Model != "" {
		out.Model = o.Model
	}
	if o.Temperature != nil {
		out.Temperature = *o.Temperature
	}

	out.Provider = strings.ToLower(out.Provider)
	switch out.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return StepConfig{}, &ProviderError{Value: out.Provider}
	}
	return out, nil
}

// Validate checks the loaded configuration eagerly so a bad global
// setting fails the run before any generation call is made.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderOpenAI, ProviderGemini:
	default:
		return &ProviderError{Value: c.LLM.Provider}
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.Quality.Tolerance < 0 || c.Quality.Tolerance >= 1 {
		return fmt.Errorf("quality.tolerance must be in [0, 1), got %g", c.Quality.Tolerance)
	}
	switch c.MT.Service {
	case "deepl", "google":
	default:
		return fmt.Errorf("unsupported MT service: %q (supported: deepl, google)", c.MT.Service)
	}
	if c.MT.DeepL.TimeoutSeconds <= 0 {
		return fmt.Errorf("mt.deepl.timeout_seconds must be positive, got %d", c.MT.DeepL.TimeoutSeconds)
	}
	return nil
}
