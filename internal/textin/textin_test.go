package textin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromMarkdown(t *testing.T) {
	md := []byte("# Lesson 3\n\nSelect the **sketch** tool. Draw a *line*.")

	got := FromMarkdown(md)
	if strings.ContainsAny(got, "<>#*") {
		t.Errorf("expected formatting stripped, got %q", got)
	}
	if !strings.Contains(got, "Lesson 3") {
		t.Errorf("expected heading text kept, got %q", got)
	}
	if !strings.Contains(got, "Select the sketch tool.") {
		t.Errorf("expected emphasis reduced to plain text, got %q", got)
	}
}

func TestFromMarkdown_Links(t *testing.T) {
	md := []byte("See [the manual](https://example.com/manual) for details.")

	got := FromMarkdown(md)
	if !strings.Contains(got, "the manual") {
		t.Errorf("expected link text kept, got %q", got)
	}
	if strings.Contains(got, "https://example.com") {
		t.Errorf("expected link target dropped, got %q", got)
	}
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Hello</p>", "Hello"},
		{"no tags at all", "no tags at all"},
		{"<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTMLTags(tt.in); got != tt.want {
			t.Errorf("StripHTMLTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.md")
	if err := os.WriteFile(path, []byte("# Title\n\nBody text."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "#") {
		t.Errorf("expected markdown reduced, got %q", got)
	}
	if !strings.Contains(got, "Body text.") {
		t.Errorf("expected body kept, got %q", got)
	}
}

func TestLoad_PlainTextVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.txt")
	content := "# not markdown, kept as-is\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != content {
		t.Errorf("expected verbatim content, got %q", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "absent.txt") {
		t.Errorf("expected the path in the error, got %v", err)
	}
}
