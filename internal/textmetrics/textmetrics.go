// Package textmetrics provides word and syllable counters plus the
// tolerance-range gate that decides whether a translation needs a
// length adjustment pass. All functions are pure and locale-agnostic
// at the character-class level; the syllable counter is an English
// heuristic and is a rough gate only.
package textmetrics

import (
	"math"
	"regexp"
	"strings"
)

var (
	// wordRe matches maximal runs of word characters with internal
	// apostrophes (straight or curly) and hyphens. Leading and trailing
	// separators are not part of a word.
	wordRe     = regexp.MustCompile(`[\p{L}\p{N}_]+(?:['’-]+[\p{L}\p{N}_]+)*`)
	vowelRunRe = regexp.MustCompile(`[aeiouy]+`)
	nonLowerRe = regexp.MustCompile(`[^a-z]`)
)

// Snapshot holds the measured counts for one piece of text.
type Snapshot struct {
	Words     int
	Syllables int
}

// Range bounds the acceptable word and syllable counts for a target
// text, derived from the source counts and a tolerance fraction.
// Syllable bounds are meaningful only when UseSyllables is true.
type Range struct {
	MinWords     int
	MaxWords     int
	MinSyllables int
	MaxSyllables int
	UseSyllables bool
}

// WordCount counts words in text. Empty text yields 0.
func WordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(wordRe.FindAllString(text, -1))
}

// SyllableCountEN estimates the syllable count of text using an
// English-oriented heuristic: vowel runs per token, minus one for a
// trailing silent "e", floored at one per token. Tokens with no ASCII
// letters are skipped. Non-empty text always yields at least 1; empty
// text yields 0. For non-English targets swap in a per-language
// estimator; this one only needs to be stable, not exact.
func SyllableCountEN(text string) int {
	if text == "" {
		return 0
	}
	count := 0
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		w2 := nonLowerRe.ReplaceAllString(w, "")
		if w2 == "" {
			continue
		}
		syl := len(vowelRunRe.FindAllString(w2, -1))
		if strings.HasSuffix(w2, "e") {
			syl--
		}
		if syl < 1 {
			syl = 1
		}
		count += syl
	}
	if count < 1 {
		count = 1
	}
	return count
}

// Measure returns both counts for text.
func Measure(text string) Snapshot {
	return Snapshot{
		Words:     WordCount(text),
		Syllables: SyllableCountEN(text),
	}
}

// ComputeRange derives the acceptable target bounds from source counts
// and a tolerance fraction (e.g. 0.1 for ±10%). Bounds are rounded to
// the nearest integer. Syllable bounds are omitted when useSyllables is
// false or the source syllable count is absent (<= 0).
func ComputeRange(srcWords, srcSyllables int, tolerance float64, useSyllables bool) Range {
	r := Range{
		MinWords: int(math.Round(float64(srcWords) * (1 - tolerance))),
		MaxWords: int(math.Round(float64(srcWords) * (1 + tolerance))),
	}
	if useSyllables && srcSyllables > 0 {
		r.MinSyllables = int(math.Round(float64(srcSyllables) * (1 - tolerance)))
		r.MaxSyllables = int(math.Round(float64(srcSyllables) * (1 + tolerance)))
		r.UseSyllables = true
	}
	return r
}

// NeedsAdjustment reports whether the target counts fall outside the
// acceptable range. The word bound must hold, and the syllable bound
// must hold when present; absent syllable bounds always satisfy the
// syllable clause.
func NeedsAdjustment(tgtWords, tgtSyllables int, r Range) bool {
	wordsOK := tgtWords >= r.MinWords && tgtWords <= r.MaxWords
	syllablesOK := true
	if r.UseSyllables {
		syllablesOK = tgtSyllables >= r.MinSyllables && tgtSyllables <= r.MaxSyllables
	}
	return !(wordsOK && syllablesOK)
}
