package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Manager loads configuration from defaults, an optional YAML file,
// and LECTRAN_* environment variables, in increasing precedence.
type Manager struct {
	v   *viper.Viper
	cfg *Config
}

// NewManager builds a Manager. When cfgFile is empty, lectran.yaml is
// searched in the working directory and ~/.config/lectran; a missing
// file is fine. An explicit cfgFile that cannot be read is an error.
func NewManager(cfgFile string) (*Manager, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LECTRAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindStepEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("lectran")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "lectran"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Manager{v: v, cfg: &cfg}, nil
}

// Config returns the loaded configuration. Read-only after load.
func (m *Manager) Config() *Config {
	return m.cfg
}

// ConfigFileUsed returns the path of the config file that was read,
// or "" when only defaults and environment were used.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// Dump renders the effective configuration as YAML.
func (m *Manager) Dump() (string, error) {
	data, err := yaml.Marshal(m.cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

// Default returns the configuration built from defaults only, with no
// file or environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; a decode failure here is a programming error.
		panic(fmt.Sprintf("decode default config: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.timeout_seconds", 120)

	v.SetDefault("quality.tolerance", 0.1)
	v.SetDefault("quality.use_syllables", true)

	v.SetDefault("languages.source", "en")
	v.SetDefault("languages.target", "fr")
	v.SetDefault("languages.input_name", "English")
	v.SetDefault("languages.output_name", "French")

	v.SetDefault("mt.service", "deepl")
	v.SetDefault("mt.target", "FR")
	v.SetDefault("mt.deepl.url", "https://api-free.deepl.com/v2/translate")
	v.SetDefault("mt.deepl.context", "CAD Tutorial Script")
	v.SetDefault("mt.deepl.timeout_seconds", 10)
	v.SetDefault("mt.google.credentials_file", "")

	v.SetDefault("prompts.dir", "")
	v.SetDefault("content.root", "./data")
	v.SetDefault("store.path", "./data/lectran.db")

	v.SetDefault("secrets.openai_key", "OPENAI_API_KEY")
	v.SetDefault("secrets.gemini_key", "GEMINI_API_KEY")
	v.SetDefault("secrets.deepl_key", "DEEPL_API_KEY")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// bindStepEnv registers the per-step override keys, which have no
// defaults, so LECTRAN_GRAMMAR_PROVIDER and friends are still picked
// up by Unmarshal.
func bindStepEnv(v *viper.Viper) {
	for _, step := range []string{"grammar", "translation", "adjustment"} {
		for _, key := range []string{"provider", "model", "temperature"} {
			_ = v.BindEnv(step + "." + key)
		}
	}
}

const defaultYAML = `# lectran configuration.
# Every key can be overridden with a LECTRAN_* environment variable,
# e.g. llm.provider -> LECTRAN_LLM_PROVIDER.

llm:
  # LLM backend used by default for all steps: openai or gemini.
  provider: openai
  # Model name; empty selects the provider default.
  model: ""
  temperature: 0.0
  # 0 means no explicit limit. Applies to all steps.
  max_tokens: 0
  timeout_seconds: 120

# Per-step overrides. Any key left out falls back to the llm section.
# grammar:
#   provider: gemini
#   model: gemini-2.5-flash
#   temperature: 0.2
# translation:
#   model: gpt-4o
# adjustment:
#   temperature: 0.0

quality:
  # Acceptable deviation of the translation's word/syllable counts
  # from the source, as a fraction.
  tolerance: 0.1
  use_syllables: true

languages:
  source: en
  target: fr
  input_name: English
  output_name: French

mt:
  # Machine translation service for the 3-step workflow: deepl or google.
  service: deepl
  target: FR
  deepl:
    url: https://api-free.deepl.com/v2/translate
    # Hint passed with every request to steer terminology.
    context: CAD Tutorial Script
    timeout_seconds: 10
  google:
    credentials_file: ""

prompts:
  # Directory with *_system.tmpl overrides; empty uses the built-ins.
  dir: ""

content:
  # Root directory that container locators resolve under.
  root: ./data

store:
  path: ./data/lectran.db

secrets:
  # Environment variables holding the API keys.
  openai_key: OPENAI_API_KEY
  gemini_key: GEMINI_API_KEY
  deepl_key: DEEPL_API_KEY

log:
  level: info
  format: text
`

// WriteDefault writes the commented default configuration to path.
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultYAML), 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
