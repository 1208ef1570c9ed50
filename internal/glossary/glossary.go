// Package glossary carries the domain term mappings injected into
// translation prompts.
package glossary

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed default.json
var defaultJSON []byte

// Glossary maps source-language terms to their required translations.
type Glossary map[string]string

// Default returns the built-in CAD terminology glossary.
func Default() Glossary {
	var g Glossary
	if err := json.Unmarshal(defaultJSON, &g); err != nil {
		// The embedded file ships with the binary; failing to decode
		// it is a programming error.
		panic(fmt.Sprintf("decode embedded glossary: %v", err))
	}
	return g
}

// Load reads a glossary from a JSON file of {"term": "translation"}
// pairs.
func Load(path string) (Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}
	var g Glossary
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse glossary %s: %w", path, err)
	}
	return g, nil
}

// Format renders the glossary as "term: translation" lines, sorted by
// term so the prompt stays stable between runs.
func (g Glossary) Format() string {
	return g.join(": ")
}

// FormatArrow renders the glossary as "term → translation" lines,
// sorted by term.
func (g Glossary) FormatArrow() string {
	return g.join(" → ")
}

func (g Glossary) join(sep string) string {
	terms := make([]string, 0, len(g))
	for term := range g {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	lines := make([]string, len(terms))
	for i, term := range terms {
		lines[i] = term + sep + g[term]
	}
	return strings.Join(lines, "\n")
}
