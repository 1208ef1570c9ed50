// Package summary condenses a lesson script into a summary paragraph
// plus action items through the configured generation backend.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/logging"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/provider"
)

// Result splits the backend response into its two expected paragraphs.
// When the response has no blank line, everything lands in
// SummarizedText and ActionItems is empty.
type Result struct {
	SummarizedText string
	ActionItems    string
}

// Params collects the collaborators a Summarizer needs.
type Params struct {
	Config      *config.Config
	Prompts     *prompt.Set
	NewProvider provider.Factory
	Logger      *log.Logger
}

// Summarizer runs the summary prompt through the globally configured
// provider; there is no per-step override for summaries.
type Summarizer struct {
	cfg         *config.Config
	prompts     *prompt.Set
	newProvider provider.Factory
	logger      *log.Logger
}

func New(p Params) (*Summarizer, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("summarizer requires a configuration")
	}
	if p.Prompts == nil {
		return nil, fmt.Errorf("summarizer requires a prompt set")
	}
	if p.NewProvider == nil {
		return nil, fmt.Errorf("summarizer requires a provider factory")
	}
	if p.Logger == nil {
		p.Logger = logging.Discard()
	}
	return &Summarizer{
		cfg:         p.Config,
		prompts:     p.Prompts,
		newProvider: p.NewProvider,
		logger:      p.Logger,
	}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (Result, error) {
	sc, err := s.cfg.Resolve("")
	if err != nil {
		return Result{}, err
	}
	prov, err := s.newProvider(sc)
	if err != nil {
		return Result{}, err
	}
	pr, err := s.prompts.Get("summary")
	if err != nil {
		return Result{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.LLM.Timeout())
	defer cancel()
	out, err := prov.Invoke(callCtx, pr, map[string]any{"lesson_text": text})
	if err != nil {
		return Result{}, err
	}
	res := parse(out)
	s.logger.Debug("summary done",
		"provider", prov.Name(),
		"summary_len", len(res.SummarizedText),
		"has_items", res.ActionItems != "")
	return res, nil
}

// parse splits the response on the first blank line.
func parse(content string) Result {
	content = strings.TrimSpace(content)
	head, tail, found := strings.Cut(content, "\n\n")
	if !found {
		return Result{SummarizedText: content}
	}
	return Result{SummarizedText: head, ActionItems: tail}
}
