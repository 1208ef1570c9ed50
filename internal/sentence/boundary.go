package sentence

import (
	"regexp"
	"strings"
	"unicode"
)

// paragraphRe matches blank-line separators between paragraphs.
var paragraphRe = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// profile holds the language-specific splitting rules for the rule
// detector.
type profile struct {
	abbreviations map[string]struct{}
}

func abbrevSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var profiles = map[string]profile{
	"en": {abbreviations: abbrevSet(
		"mr.", "mrs.", "ms.", "dr.", "prof.", "sr.", "jr.", "st.",
		"vs.", "etc.", "e.g.", "i.e.", "fig.", "no.", "inc.", "ltd.",
		"co.", "dept.", "approx.", "min.", "max.",
	)},
	"fr": {abbreviations: abbrevSet(
		"m.", "mm.", "mme.", "mlle.", "dr.", "st.", "ste.", "etc.",
		"cf.", "env.", "p.ex.", "av.", "boul.",
	)},
	"de": {abbreviations: abbrevSet(
		"z.b.", "bzw.", "usw.", "usf.", "dr.", "prof.", "nr.", "ca.",
		"evtl.", "ggf.", "u.a.", "d.h.", "vgl.", "inkl.", "str.",
	)},
}

// RuleDetector splits text into raw sentence spans using terminal
// punctuation and per-language abbreviation lists. It is deliberately
// permissive: ellipses and unknown abbreviations over-split, and the
// segmenter's merge pass folds the resulting fragments back. An
// abbreviation period never ends a span, even at a true sentence end.
type RuleDetector struct{}

func NewRuleDetector() *RuleDetector {
	return &RuleDetector{}
}

func (d *RuleDetector) Detect(text, language string) ([]string, error) {
	prof, ok := profiles[language]
	if !ok {
		return nil, &UnsupportedLanguageError{Code: language, Supported: Supported()}
	}

	var spans []string
	for _, para := range paragraphRe.Split(text, -1) {
		spans = append(spans, splitSpans(para, prof)...)
	}
	return spans, nil
}

// splitSpans scans one paragraph and emits spans ending at terminal
// punctuation runs followed by whitespace or end of text.
func splitSpans(text string, prof profile) []string {
	runes := []rune(text)
	var spans []string
	start := 0

	i := 0
	for i < len(runes) {
		if !isTerminator(runes[i]) {
			i++
			continue
		}

		// Consume the full punctuation run and trailing closing marks.
		first := runes[i]
		end := i
		for end+1 < len(runes) && isTerminator(runes[end+1]) {
			end++
		}
		singlePeriod := first == '.' && end == i
		for end+1 < len(runes) && isClosing(runes[end+1]) {
			end++
		}

		// A boundary requires whitespace or end of text after the run.
		// This also keeps decimal points like "3.14" intact.
		if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
			i = end + 1
			continue
		}

		if singlePeriod && holdsSplit(runes, start, i, prof) {
			i = end + 1
			continue
		}

		spans = append(spans, string(runes[start:end+1]))
		i = end + 1
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		start = i
	}

	if start < len(runes) {
		spans = append(spans, string(runes[start:]))
	}
	return spans
}

// holdsSplit reports whether the period at index i belongs to an
// abbreviation, a single upper-case initial, or a list enumerator and
// therefore does not end the sentence.
func holdsSplit(runes []rune, start, i int, prof profile) bool {
	tokStart := i
	for tokStart > start && !unicode.IsSpace(runes[tokStart-1]) {
		tokStart--
	}
	token := strings.ToLower(string(runes[tokStart : i+1]))
	if _, ok := prof.abbreviations[token]; ok {
		return true
	}
	// Single upper-case initial, e.g. the "J." in "J. Smith".
	if i-tokStart == 1 && unicode.IsLetter(runes[tokStart]) && unicode.IsUpper(runes[tokStart]) {
		return true
	}
	// Enumerator heading a numbered item, e.g. the "2." in
	// "2. Next point". Only short numbers at the span start qualify,
	// so a year ending a sentence still splits.
	if tokStart == start && i > tokStart && i-tokStart <= 2 && allDigits(runes[tokStart:i]) {
		return true
	}
	return false
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', '»', ')', ']':
		return true
	}
	return false
}
