// Package prompt loads and validates the per-stage prompt templates.
//
// Template content is configuration: built-in defaults are compiled in,
// and the system template of any stage can be overridden from a prompts
// directory. Placeholders use text/template map syntax ({{.input_text}}).
// Each stage declares a required placeholder set; a template missing a
// required placeholder, or referencing an unknown one, fails at load
// time rather than at invocation time.
package prompt

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var builtin embed.FS

var placeholderRe = regexp.MustCompile(`\{\{\s*\.([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// required lists, per prompt name, the placeholders that must appear in
// the system and human templates combined. The same set is also the
// full allowed vocabulary of that prompt.
var required = map[string][]string{
	"grammar":     {"input_text"},
	"translation": {"text", "input_language", "output_language", "dictionary"},
	"adjustment":  {"translated_text", "src_words", "src_syllables", "tgt_words", "tgt_syllables"},
	"summary":     {"lesson_text"},
}

// MissingPlaceholderError reports a required placeholder absent from a
// prompt's templates.
type MissingPlaceholderError struct {
	Prompt      string
	Placeholder string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("prompt %q: required placeholder {%s} not found in template", e.Prompt, e.Placeholder)
}

// Prompt is one stage's validated system + human template pair.
type Prompt struct {
	name   string
	system *template.Template
	human  *template.Template
}

func (p *Prompt) Name() string {
	return p.name
}

// Render executes both templates against the variables map.
func (p *Prompt) Render(vars map[string]any) (system, human string, err error) {
	var sb strings.Builder
	if err := p.system.Execute(&sb, vars); err != nil {
		return "", "", fmt.Errorf("render %s system prompt: %w", p.name, err)
	}
	system = sb.String()

	sb.Reset()
	if err := p.human.Execute(&sb, vars); err != nil {
		return "", "", fmt.Errorf("render %s human prompt: %w", p.name, err)
	}
	return system, sb.String(), nil
}

// Set holds all stage prompts, loaded and validated once at startup.
type Set struct {
	prompts map[string]*Prompt
}

// NewSet loads the built-in templates, applies system-template
// overrides from dir when it is non-empty (files named
// "<name>_system.tmpl"), and validates every prompt's placeholders.
// Human templates are fixed and always come from the built-ins.
func NewSet(dir string) (*Set, error) {
	set := &Set{prompts: make(map[string]*Prompt, len(required))}
	for name := range required {
		systemText, err := loadSystem(dir, name)
		if err != nil {
			return nil, err
		}
		humanData, err := builtin.ReadFile("templates/" + name + "_human.tmpl")
		if err != nil {
			return nil, fmt.Errorf("read built-in %s human template: %w", name, err)
		}
		humanText := strings.TrimSpace(string(humanData))

		if err := validatePlaceholders(name, systemText, humanText); err != nil {
			return nil, err
		}

		system, err := template.New(name + "_system").Option("missingkey=error").Parse(systemText)
		if err != nil {
			return nil, fmt.Errorf("parse %s system template: %w", name, err)
		}
		human, err := template.New(name + "_human").Option("missingkey=error").Parse(humanText)
		if err != nil {
			return nil, fmt.Errorf("parse %s human template: %w", name, err)
		}

		set.prompts[name] = &Prompt{name: name, system: system, human: human}
	}
	return set, nil
}

// Get returns the prompt with the given name.
func (s *Set) Get(name string) (*Prompt, error) {
	p, ok := s.prompts[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt %q", name)
	}
	return p, nil
}

// Names returns the loaded prompt names, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.prompts))
	for name := range s.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadSystem(dir, name string) (string, error) {
	if dir != "" {
		path := filepath.Join(dir, name+"_system.tmpl")
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt override %s: %w", path, err)
		}
	}
	data, err := builtin.ReadFile("templates/" + name + "_system.tmpl")
	if err != nil {
		return "", fmt.Errorf("read built-in %s system template: %w", name, err)
	}
	return string(data), nil
}

func validatePlaceholders(name, systemText, humanText string) error {
	found := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(systemText+"\n"+humanText, -1) {
		found[m[1]] = true
	}

	allowed := make(map[string]bool, len(required[name]))
	for _, r := range required[name] {
		allowed[r] = true
		if !found[r] {
			return &MissingPlaceholderError{Prompt: name, Placeholder: r}
		}
	}

	extras := make([]string, 0)
	for v := range found {
		if !allowed[v] {
			extras = append(extras, v)
		}
	}
	if len(extras) > 0 {
		sort.Strings(extras)
		return fmt.Errorf("prompt %q: unknown placeholder {%s}", name, extras[0])
	}
	return nil
}
