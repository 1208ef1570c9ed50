// Package detector identifies the language of a lesson text. It backs
// the "auto" source-language setting: the detected code picks the
// segmentation profile and the detected name fills the prompt's
// input-language variable.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua detector built over all languages it knows,
// so off-list inputs are still recognized and can be rejected with a
// useful name instead of being forced into the nearest supported one.
// Construction is expensive; build once and reuse across texts.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	det := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()
	return &Detector{detector: det}
}

// Detect returns the most likely language of text. Empty or
// inconclusive text reports false.
func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// Name returns the English name of the detected language, e.g.
// "French", in the form the prompt templates expect.
func (d *Detector) Name(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.String(), true
}

// Code returns the lower-case ISO 639-1 code of the detected language,
// matching the segmentation language codes ("en", "fr", "de").
func (d *Detector) Code(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
