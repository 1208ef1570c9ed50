// Package sentence turns raw sentence-boundary spans into numbered,
// linguistically valid sentences. The boundary detector (rule-based by
// default, swappable for tests or an external NLP model) intentionally
// over-splits; the segmenter's merge pass folds invalid fragments back
// into the preceding sentence before numbering.
package sentence

import (
	"fmt"
	"sort"
	"strings"
)

// Sentence is one segmented sentence. Numbers are contiguous starting
// at 1 and assigned only after merging completes.
type Sentence struct {
	Number int
	Text   string
}

// Detector produces raw sentence-boundary spans for a text in the
// given language. Spans may carry surrounding whitespace; the
// segmenter trims and drops empties.
type Detector interface {
	Detect(text, language string) ([]string, error)
}

// UnsupportedLanguageError is returned when a language code is not in
// the supported set.
type UnsupportedLanguageError struct {
	Code      string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %q (supported: %s)", e.Code, strings.Join(e.Supported, ", "))
}

// Supported returns the supported language codes, sorted.
func Supported() []string {
	codes := make([]string, 0, len(profiles))
	for code := range profiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ValidateLanguage checks a language code against the supported set.
func ValidateLanguage(code string) error {
	if _, ok := profiles[code]; !ok {
		return &UnsupportedLanguageError{Code: code, Supported: Supported()}
	}
	return nil
}

// Segmenter segments text using a boundary detector and the fragment
// merge pass. It holds no state across calls; Segment is a pure
// function of its inputs.
type Segmenter struct {
	detector Detector
}

func NewSegmenter(d Detector) *Segmenter {
	return &Segmenter{detector: d}
}

// Segment splits text into sentences for the given language code.
// The language is validated against the supported set before the
// detector is invoked. Raw spans are trimmed and empty ones dropped;
// invalid fragments are appended to the preceding accumulator with a
// single space (the first span is always kept, merged or not, since
// there is nothing earlier to merge into); surviving sentences are
// numbered contiguously from 1 in flush order.
func (s *Segmenter) Segment(text, language string) ([]Sentence, error) {
	if err := ValidateLanguage(language); err != nil {
		return nil, err
	}

	raw, err := s.detector.Detect(text, language)
	if err != nil {
		return nil, err
	}

	spans := make([]string, 0, len(raw))
	for _, r := range raw {
		if t := strings.TrimSpace(r); t != "" {
			spans = append(spans, t)
		}
	}
	if len(spans) == 0 {
		return nil, nil
	}

	merged := make([]string, 0, len(spans))
	acc := spans[0]
	for _, span := range spans[1:] {
		if IsInvalidFragment(span) {
			acc += " " + span
			continue
		}
		merged = append(merged, acc)
		acc = span
	}
	merged = append(merged, acc)

	sentences := make([]Sentence, 0, len(merged))
	n := 1
	for _, m := range merged {
		if strings.TrimSpace(m) == "" {
			continue
		}
		sentences = append(sentences, Sentence{Number: n, Text: m})
		n++
	}
	return sentences, nil
}

// FormatNumbered renders sentences as "N. text" lines.
func FormatNumbered(sentences []Sentence) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, fmt.Sprintf("%d. %s", s.Number, s.Text))
	}
	return out
}
