// Package pipeline sequences the four translation stages: load the
// source text, correct its grammar, translate it, and adjust the
// translation against the source metrics. Stages run strictly in
// order; any stage failure aborts the run with no partial result.
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/glossary"
	"github.com/valpere/lectran/internal/logging"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/provider"
	"github.com/valpere/lectran/internal/sentence"
	"github.com/valpere/lectran/internal/storage"
	"github.com/valpere/lectran/internal/textmetrics"
)

// Stage names used in error annotations and run records.
const (
	StageLoad      = "load"
	StageGrammar   = "grammar"
	StageTranslate = "translate"
	StageAdjust    = "adjust"
)

// StageError annotates a failure with the stage it occurred in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Request describes one pipeline run.
type Request struct {
	// Text is the raw source text. When empty, the text is read from
	// Locator via the pipeline's document store.
	Text    string
	Locator storage.Locator

	// Language is the segmentation language code, e.g. "en".
	Language string
	// InputLanguage and OutputLanguage are the human-readable names
	// used in prompts, e.g. "English", "French".
	InputLanguage  string
	OutputLanguage string

	// Glossary overrides the built-in default when non-nil.
	Glossary glossary.Glossary

	// SkipGrammar feeds the raw text to segmentation and translation
	// unchanged.
	SkipGrammar bool
}

// StageUsage records the backend identity a stage resolved to, after
// provider and model defaulting.
type StageUsage struct {
	Provider string
	Model    string
}

// Timings holds per-stage and total wall-clock durations. Total spans
// the whole run and is at least the sum of the stage durations.
type Timings struct {
	Grammar     time.Duration
	Translation time.Duration
	Adjustment  time.Duration
	Total       time.Duration
}

// Result is the outcome of a successful run.
type Result struct {
	TranslatedText string
	// DraftText is the translation before adjustment. It equals
	// TranslatedText when no adjustment ran.
	DraftText string

	OriginalText  string
	CorrectedText string
	// CharCount is the rune count of the loaded text; WordCount is a
	// whitespace split, deliberately independent of the metrics
	// engine's regex-based count.
	CharCount int
	WordCount int

	// Sentences is the segmented corrected text, rendered "N. text".
	Sentences      []string
	SentenceCount  int
	GrammarApplied bool

	// Punctuation-based summary counts over the original and final
	// text, distinct from SentenceCount above.
	OriginalSentenceCount   int
	TranslatedSentenceCount int

	// Adjusted records whether the adjustment step actually invoked
	// the backend, or the translation was already within tolerance.
	Adjusted bool

	Grammar     StageUsage
	Translation StageUsage
	Adjustment  StageUsage

	Timings Timings
}

// Params collects the collaborators a Pipeline needs.
type Params struct {
	Config      *config.Config
	Prompts     *prompt.Set
	NewProvider provider.Factory
	// Segmenter defaults to the rule-based boundary detector.
	Segmenter *sentence.Segmenter
	// Texts is only needed for locator-based requests.
	Texts  storage.Store
	Logger *log.Logger
}

// Pipeline runs the four stages for a single request. Build one per
// run; instances must not be shared between concurrent runs.
type Pipeline struct {
	cfg         *config.Config
	prompts     *prompt.Set
	newProvider provider.Factory
	segmenter   *sentence.Segmenter
	texts       storage.Store
	logger      *log.Logger
}

func New(p Params) (*Pipeline, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("pipeline requires a configuration")
	}
	if p.Prompts == nil {
		return nil, fmt.Errorf("pipeline requires a prompt set")
	}
	if p.NewProvider == nil {
		return nil, fmt.Errorf("pipeline requires a provider factory")
	}
	if p.Segmenter == nil {
		p.Segmenter = sentence.NewSegmenter(sentence.NewRuleDetector())
	}
	if p.Logger == nil {
		p.Logger = logging.Discard()
	}
	return &Pipeline{
		cfg:         p.Config,
		prompts:     p.Prompts,
		newProvider: p.NewProvider,
		segmenter:   p.Segmenter,
		texts:       p.Texts,
		logger:      p.Logger,
	}, nil
}

// steps holds the per-step provider handles, all resolved before any
// backend call is made so configuration errors fail the run early.
type steps struct {
	grammar   provider.Provider
	translate provider.Provider
	adjust    provider.Provider
}

func (p *Pipeline) resolveProviders() (*steps, error) {
	var st steps
	for _, bind := range []struct {
		step string
		dst  *provider.Provider
	}{
		{"grammar", &st.grammar},
		{"translation", &st.translate},
		{"adjustment", &st.adjust},
	} {
		sc, err := p.cfg.Resolve(bind.step)
		if err != nil {
			return nil, err
		}
		prov, err := p.newProvider(sc)
		if err != nil {
			return nil, err
		}
		*bind.dst = prov
	}
	return &st, nil
}

// invoke runs one provider call under the configured timeout.
func (p *Pipeline) invoke(ctx context.Context, prov provider.Provider, promptName string, vars map[string]any) (string, error) {
	pr, err := p.prompts.Get(promptName)
	if err != nil {
		return "", err
	}
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.LLM.Timeout())
	defer cancel()
	return prov.Invoke(callCtx, pr, vars)
}

// Run executes the pipeline. On failure no partial Result is returned;
// the error names the stage it came from.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sentence.ValidateLanguage(req.Language); err != nil {
		return nil, err
	}
	st, err := p.resolveProviders()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Grammar:     StageUsage{Provider: st.grammar.Name(), Model: st.grammar.Model()},
		Translation: StageUsage{Provider: st.translate.Name(), Model: st.translate.Model()},
		Adjustment:  StageUsage{Provider: st.adjust.Name(), Model: st.adjust.Model()},
	}

	// Load.
	text := req.Text
	if text == "" {
		if p.texts == nil {
			return nil, &StageError{Stage: StageLoad, Err: fmt.Errorf("no document store configured for locator %s", req.Locator)}
		}
		loaded, err := p.texts.ReadText(ctx, req.Locator)
		if err != nil {
			return nil, &StageError{Stage: StageLoad, Err: err}
		}
		text = loaded
	}
	res.OriginalText = text
	res.CharCount = utf8.RuneCountInString(text)
	res.WordCount = len(strings.Fields(text))
	p.logger.Debug("loaded source text", "chars", res.CharCount, "words", res.WordCount)

	// GrammarCorrect.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grammarStart := time.Now()
	corrected := text
	if !req.SkipGrammar {
		out, err := p.invoke(ctx, st.grammar, "grammar", map[string]any{"input_text": text})
		if err != nil {
			return nil, &StageError{Stage: StageGrammar, Err: err}
		}
		corrected = out
		res.GrammarApplied = true
	}
	res.CorrectedText = corrected

	sentences, err := p.segmenter.Segment(corrected, req.Language)
	if err != nil {
		return nil, &StageError{Stage: StageGrammar, Err: err}
	}
	res.Sentences = sentence.FormatNumbered(sentences)
	res.SentenceCount = len(sentences)
	res.Timings.Grammar = time.Since(grammarStart)
	p.logger.Debug("grammar stage done", "applied", res.GrammarApplied, "sentences", res.SentenceCount)

	// Translate.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gloss := req.Glossary
	if gloss == nil {
		gloss = glossary.Default()
	}
	translateStart := time.Now()
	translated, err := p.invoke(ctx, st.translate, "translation", map[string]any{
		"text":            corrected,
		"input_language":  req.InputLanguage,
		"output_language": req.OutputLanguage,
		"dictionary":      gloss.Format(),
	})
	if err != nil {
		return nil, &StageError{Stage: StageTranslate, Err: err}
	}
	res.DraftText = translated
	res.Timings.Translation = time.Since(translateStart)
	p.logger.Debug("translate stage done", "provider", res.Translation.Provider, "model", res.Translation.Model)

	// Adjust.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	final := translated
	src := textmetrics.Measure(corrected)
	tgt := textmetrics.Measure(translated)
	rng := textmetrics.ComputeRange(src.Words, src.Syllables, p.cfg.Quality.Tolerance, p.cfg.Quality.UseSyllables)
	if textmetrics.NeedsAdjustment(tgt.Words, tgt.Syllables, rng) {
		adjustStart := time.Now()
		adjusted, err := p.invoke(ctx, st.adjust, "adjustment", map[string]any{
			"translated_text": translated,
			"src_words":       src.Words,
			"src_syllables":   src.Syllables,
			"tgt_words":       tgt.Words,
			"tgt_syllables":   tgt.Syllables,
		})
		if err != nil {
			return nil, &StageError{Stage: StageAdjust, Err: err}
		}
		final = adjusted
		res.Adjusted = true
		res.Timings.Adjustment = time.Since(adjustStart)
	} else {
		p.logger.Debug("translation within tolerance, skipping adjustment",
			"words", tgt.Words, "min", rng.MinWords, "max", rng.MaxWords)
	}

	// Done.
	res.TranslatedText = final
	res.OriginalSentenceCount = countSentences(res.OriginalText)
	res.TranslatedSentenceCount = countSentences(final)
	res.Timings.Total = time.Since(start)
	p.logger.Info("pipeline done",
		"sentences", res.SentenceCount,
		"adjusted", res.Adjusted,
		"total", res.Timings.Total)
	return res, nil
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// countSentences is the coarse punctuation split used for the summary
// counts. It is intentionally simpler than the segmenter: abbreviations
// and decimals are over-counted here, and that is acceptable for a
// before/after comparison on the same text pair.
func countSentences(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	n := 0
	for _, part := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}
