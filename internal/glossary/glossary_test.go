package glossary_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/lectran/internal/glossary"
)

func TestDefaultGlossary(t *testing.T) {
	g := glossary.Default()
	if len(g) == 0 {
		t.Fatal("expected built-in glossary to have entries")
	}
	if got := g["sketch"]; got != "esquisse" {
		t.Errorf("expected sketch -> esquisse, got %q", got)
	}
}

func TestFormatSortedByTerm(t *testing.T) {
	g := glossary.Glossary{"sketch": "esquisse", "assembly": "assemblage", "fillet": "congé"}

	got := g.Format()
	want := "assembly: assemblage\nfillet: congé\nsketch: esquisse"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatArrow(t *testing.T) {
	g := glossary.Glossary{"part": "pièce", "shell": "coque"}

	got := g.FormatArrow()
	want := "part → pièce\nshell → coque"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := (glossary.Glossary{}).Format(); got != "" {
		t.Errorf("expected empty string for empty glossary, got %q", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.json")
	if err := os.WriteFile(path, []byte(`{"bolt": "boulon"}`), 0o644); err != nil {
		t.Fatalf("write glossary: %v", err)
	}

	g, err := glossary.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g["bolt"] != "boulon" {
		t.Errorf("expected bolt -> boulon, got %q", g["bolt"])
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := glossary.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write glossary: %v", err)
	}
	if _, err := glossary.Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := glossary.Load(path); err == nil || !strings.Contains(err.Error(), "bad.json") {
		t.Error("expected error to name the offending file")
	}
}
