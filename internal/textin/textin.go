// Package textin reduces rich input formats to the plain text the
// pipeline operates on. Markdown lessons are rendered and stripped so
// headings, emphasis, and links do not leak formatting characters into
// prompts or sentence counts.
package textin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// FromMarkdown converts markdown to readable plain text by rendering
// it and stripping the resulting tags.
func FromMarkdown(md []byte) string {
	opts := html.RendererOptions{
		Flags: html.CommonFlags,
	}
	renderer := html.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.Attributes
	p := parser.NewWithExtensions(ext)
	doc := p.Parse(md)
	rendered := markdown.Render(doc, renderer)
	return strings.TrimSpace(StripHTMLTags(string(rendered)))
}

// StripHTMLTags drops everything between < and >, keeping the text
// content as-is.
func StripHTMLTags(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	inTag := false
	for _, ch := range content {
		switch ch {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				b.WriteRune(ch)
			}
		}
	}
	return b.String()
}

// Load reads path and reduces it based on its extension: .md and
// .markdown files go through the markdown reduction, everything else
// is returned verbatim.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FromMarkdown(data), nil
	}
	return string(data), nil
}
