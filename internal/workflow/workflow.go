// Package workflow runs the three-step lesson translation: load the
// text and count its size, correct grammar and segment into numbered
// sentences, then machine-translate the numbered block. Unlike the
// full pipeline it hands translation to a dedicated MT service rather
// than an LLM, and skips the quality-adjustment pass.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/logging"
	"github.com/valpere/lectran/internal/mt"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/provider"
	"github.com/valpere/lectran/internal/sentence"
	"github.com/valpere/lectran/internal/storage"
)

// Step1 holds the loaded original text and its size counts. CharCount
// is runes; WordCount is a whitespace split.
type Step1 struct {
	OriginalText string
	CharCount    int
	WordCount    int
}

// Step2 holds the optionally corrected text and its numbered sentences.
type Step2 struct {
	CorrectedText  string
	Sentences      []string
	SentenceCount  int
	GrammarApplied bool
}

// Step3 holds the machine translation of the numbered sentence block
// and the translation's own sentence count.
type Step3 struct {
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	SentenceCount  int
}

// Result aggregates the three steps of one completed workflow run.
type Result struct {
	Original   Step1
	Corrected  Step2
	Translated Step3
	Completed  bool
}

// StepError annotates a failure with the workflow step it occurred in.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Request describes one workflow run.
type Request struct {
	// Text is the raw source text. When empty, the text is read from
	// Locator via the workflow's document store.
	Text    string
	Locator storage.Locator

	// Language is the segmentation code for the source text, e.g.
	// "en". Empty means English.
	Language string
	// TargetLanguage is the machine-translation target code, e.g.
	// "FR". Empty falls back to the configured default.
	TargetLanguage string

	SkipGrammar bool
}

// Params collects the collaborators a Workflow needs.
type Params struct {
	Config      *config.Config
	Prompts     *prompt.Set
	NewProvider provider.Factory
	Translator  mt.Translator
	// Segmenter defaults to the rule-based boundary detector.
	Segmenter *sentence.Segmenter
	// Texts is only needed for locator-based requests.
	Texts  storage.Store
	Logger *log.Logger
}

// Workflow runs the three steps for a single request.
type Workflow struct {
	cfg         *config.Config
	prompts     *prompt.Set
	newProvider provider.Factory
	translator  mt.Translator
	segmenter   *sentence.Segmenter
	texts       storage.Store
	logger      *log.Logger
}

func New(p Params) (*Workflow, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("workflow requires a configuration")
	}
	if p.Prompts == nil {
		return nil, fmt.Errorf("workflow requires a prompt set")
	}
	if p.NewProvider == nil {
		return nil, fmt.Errorf("workflow requires a provider factory")
	}
	if p.Translator == nil {
		return nil, fmt.Errorf("workflow requires a machine translator")
	}
	if p.Segmenter == nil {
		p.Segmenter = sentence.NewSegmenter(sentence.NewRuleDetector())
	}
	if p.Logger == nil {
		p.Logger = logging.Discard()
	}
	return &Workflow{
		cfg:         p.Config,
		prompts:     p.Prompts,
		newProvider: p.NewProvider,
		translator:  p.Translator,
		segmenter:   p.Segmenter,
		texts:       p.Texts,
		logger:      p.Logger,
	}, nil
}

// segmentCodes maps MT target codes onto supported segmentation
// languages. Unknown targets segment as French.
var segmentCodes = map[string]string{
	"FR":    "fr",
	"DE":    "de",
	"EN":    "en",
	"EN-US": "en",
	"EN-GB": "en",
}

func segmentCode(target string) string {
	if code, ok := segmentCodes[strings.ToUpper(target)]; ok {
		return code
	}
	return "fr"
}

// Execute runs all three steps. Any step failure aborts the run with a
// step-annotated error and no partial result.
func (w *Workflow) Execute(ctx context.Context, req Request) (*Result, error) {
	if req.Language == "" {
		req.Language = "en"
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = w.cfg.MT.Target
	}
	if err := sentence.ValidateLanguage(req.Language); err != nil {
		return nil, err
	}

	text := req.Text
	if text == "" {
		if w.texts == nil {
			return nil, &StepError{Step: 1, Err: fmt.Errorf("no document store configured for locator %s", req.Locator)}
		}
		loaded, err := w.texts.ReadText(ctx, req.Locator)
		if err != nil {
			return nil, &StepError{Step: 1, Err: err}
		}
		text = loaded
	}
	step1 := Step1{
		OriginalText: text,
		CharCount:    utf8.RuneCountInString(text),
		WordCount:    len(strings.Fields(text)),
	}
	w.logger.Debug("workflow step 1 done", "chars", step1.CharCount, "words", step1.WordCount)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	step2, err := w.correctAndSplit(ctx, text, req.Language, !req.SkipGrammar)
	if err != nil {
		return nil, &StepError{Step: 2, Err: err}
	}
	w.logger.Debug("workflow step 2 done", "sentences", step2.SentenceCount, "grammar", step2.GrammarApplied)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	numbered := strings.Join(step2.Sentences, "\n")
	step3, err := w.translate(ctx, numbered, req.Language, req.TargetLanguage)
	if err != nil {
		return nil, &StepError{Step: 3, Err: err}
	}
	w.logger.Debug("workflow step 3 done", "target", step3.TargetLanguage, "sentences", step3.SentenceCount)

	return &Result{
		Original:   step1,
		Corrected:  step2,
		Translated: step3,
		Completed:  true,
	}, nil
}

func (w *Workflow) correctAndSplit(ctx context.Context, text, language string, correct bool) (Step2, error) {
	out := text
	if correct {
		sc, err := w.cfg.Resolve("grammar")
		if err != nil {
			return Step2{}, err
		}
		prov, err := w.newProvider(sc)
		if err != nil {
			return Step2{}, err
		}
		pr, err := w.prompts.Get("grammar")
		if err != nil {
			return Step2{}, err
		}
		callCtx, cancel := context.WithTimeout(ctx, w.cfg.LLM.Timeout())
		defer cancel()
		corrected, err := prov.Invoke(callCtx, pr, map[string]any{"input_text": text})
		if err != nil {
			return Step2{}, err
		}
		out = corrected
	}

	sentences, err := w.segmenter.Segment(out, language)
	if err != nil {
		return Step2{}, err
	}
	return Step2{
		CorrectedText:  out,
		Sentences:      sentence.FormatNumbered(sentences),
		SentenceCount:  len(sentences),
		GrammarApplied: correct,
	}, nil
}

func (w *Workflow) translate(ctx context.Context, text, sourceLang, target string) (Step3, error) {
	translated, err := w.translator.Translate(ctx, mt.Request{Text: text, TargetLang: target})
	if err != nil {
		return Step3{}, err
	}
	sentences, err := w.segmenter.Segment(translated, segmentCode(target))
	if err != nil {
		return Step3{}, err
	}
	return Step3{
		TranslatedText: translated,
		SourceLanguage: strings.ToUpper(sourceLang),
		TargetLanguage: target,
		SentenceCount:  len(sentences),
	}, nil
}
