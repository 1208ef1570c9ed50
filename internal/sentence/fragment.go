package sentence

import (
	"regexp"
	"strings"
	"unicode"
)

// singleTokenCommaRe matches a lone token ending in a comma with no
// internal whitespace, e.g. "word,".
var singleTokenCommaRe = regexp.MustCompile(`^\S+,\s*$`)

// IsInvalidFragment reports whether a candidate sentence is a
// structural fragment that should be merged into the preceding
// sentence. A fragment is one that, after trimming:
//   - starts with a comma, or
//   - is a single token followed by a comma, or
//   - has a lower-case letter as its first Latin alphabetic character.
//
// The lower-case rule is a heuristic for "continuation, not sentence
// start" and misclassifies genuine sentences that begin with a
// lower-cased proper noun. That is a known approximation; keep it.
// Empty text is never a fragment.
func IsInvalidFragment(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ",") {
		return true
	}
	if singleTokenCommaRe.MatchString(trimmed) {
		return true
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) && unicode.Is(unicode.Latin, r) {
			return unicode.IsLower(r)
		}
	}
	return false
}
