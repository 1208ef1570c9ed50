package sentence_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/valpere/lectran/internal/sentence"
)

// stubDetector returns canned spans and records invocations.
type stubDetector struct {
	spans  []string
	err    error
	called bool
}

func (d *stubDetector) Detect(text, language string) ([]string, error) {
	d.called = true
	return d.spans, d.err
}

// --- IsInvalidFragment tests ---

func TestIsInvalidFragment(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"   ", false},
		{", and goodbye.", true},
		{",leading", true},
		{"word,", true},
		{"Two words,", false},
		{"Word here.", false},
		{"hello world", true},
		{"Hello", false},
		{"123 things", true},
		{"Привіт світ", false},
		{"Éclair is ready.", false},
		{"42.", false},
	}
	for _, tt := range tests {
		if got := sentence.IsInvalidFragment(tt.text); got != tt.want {
			t.Errorf("IsInvalidFragment(%q) = %v, expected %v", tt.text, got, tt.want)
		}
	}
}

// --- Segment tests ---

func TestSegment_MergesFragments(t *testing.T) {
	det := &stubDetector{spans: []string{"Hello world.", ", and goodbye.", "another fragment here."}}
	seg := sentence.NewSegmenter(det)

	got, err := seg.Segment("irrelevant", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %v", len(got), got)
	}
	want := "Hello world. , and goodbye. another fragment here."
	if got[0].Text != want {
		t.Errorf("expected %q, got %q", want, got[0].Text)
	}
	if got[0].Number != 1 {
		t.Errorf("expected number 1, got %d", got[0].Number)
	}
}

func TestSegment_ValidStartsUntouched(t *testing.T) {
	det := &stubDetector{spans: []string{"Hello.", "World."}}
	seg := sentence.NewSegmenter(det)

	got, err := seg.Segment("irrelevant", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(got))
	}
	if got[0].Text != "Hello." || got[0].Number != 1 {
		t.Errorf("sentence 1 wrong: %+v", got[0])
	}
	if got[1].Text != "World." || got[1].Number != 2 {
		t.Errorf("sentence 2 wrong: %+v", got[1])
	}
}

func TestSegment_FirstSpanAlwaysKept(t *testing.T) {
	// The first raw span has nothing earlier to merge into, so it starts
	// the accumulator even when it matches a fragment pattern itself.
	det := &stubDetector{spans: []string{", start here", "Good sentence."}}
	seg := sentence.NewSegmenter(det)

	got, err := seg.Segment("irrelevant", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
	if got[0].Text != ", start here" {
		t.Errorf("expected first span kept as-is, got %q", got[0].Text)
	}
}

func TestSegment_ConsecutiveFragmentsAccumulate(t *testing.T) {
	det := &stubDetector{spans: []string{"One two.", ", three", "four five", "Six seven."}}
	seg := sentence.NewSegmenter(det)

	got, err := seg.Segment("irrelevant", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
	if got[0].Text != "One two. , three four five" {
		t.Errorf("expected accumulated sentence, got %q", got[0].Text)
	}
	if got[1].Text != "Six seven." {
		t.Errorf("expected %q, got %q", "Six seven.", got[1].Text)
	}
}

func TestSegment_TrimsAndDropsEmptySpans(t *testing.T) {
	det := &stubDetector{spans: []string{"  Hello.  ", "", "   ", "World."}}
	seg := sentence.NewSegmenter(det)

	got, err := seg.Segment("irrelevant", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(got))
	}
	if got[0].Text != "Hello." {
		t.Errorf("expected trimmed text, got %q", got[0].Text)
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	det := &stubDetector{spans: nil}
	seg := sentence.NewSegmenter(det)

	got, err := seg.Segment("", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no sentences, got %d", len(got))
	}
}

func TestSegment_UnsupportedLanguage(t *testing.T) {
	det := &stubDetector{spans: []string{"Hello."}}
	seg := sentence.NewSegmenter(det)

	_, err := seg.Segment("Hello.", "xx")
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
	var langErr *sentence.UnsupportedLanguageError
	if !errors.As(err, &langErr) {
		t.Fatalf("expected UnsupportedLanguageError, got %T", err)
	}
	if langErr.Code != "xx" {
		t.Errorf("expected offending code %q, got %q", "xx", langErr.Code)
	}
	if !strings.Contains(err.Error(), "xx") {
		t.Errorf("error should name the offending code: %v", err)
	}
	for _, code := range []string{"de", "en", "fr"} {
		if !strings.Contains(err.Error(), code) {
			t.Errorf("error should list supported code %q: %v", code, err)
		}
	}
	if det.called {
		t.Error("detector must not be invoked for an unsupported language")
	}
}

func TestSegment_NumbersContiguous(t *testing.T) {
	det := &stubDetector{spans: []string{"First one.", "Second one.", ", tail", "Third one."}}
	seg := sentence.NewSegmenter(det)

	got, err := seg.Segment("irrelevant", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range got {
		if s.Number != i+1 {
			t.Errorf("sentence %d has number %d", i, s.Number)
		}
	}
}

// --- RuleDetector tests ---

func TestRuleDetector_SimpleSplit(t *testing.T) {
	det := sentence.NewRuleDetector()
	spans, err := det.Detect("He left. Then came back.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0] != "He left." {
		t.Errorf("expected %q, got %q", "He left.", spans[0])
	}
	if spans[1] != "Then came back." {
		t.Errorf("expected %q, got %q", "Then came back.", spans[1])
	}
}

func TestRuleDetector_Abbreviations(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect("Dr. Smith arrived. He sat down.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0] != "Dr. Smith arrived." {
		t.Errorf("abbreviation split wrong: %q", spans[0])
	}
}

func TestRuleDetector_GermanAbbreviations(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect("Die Datei liegt z.B. hier. Danach geht es weiter.", "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
}

func TestRuleDetector_Initials(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect("J. Smith wrote this. Nobody argued.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
}

func TestRuleDetector_Enumerators(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect("1. First point here. 2. Second point here.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0] != "1. First point here." {
		t.Errorf("expected enumerator kept with its item, got %q", spans[0])
	}
	if spans[1] != "2. Second point here." {
		t.Errorf("expected enumerator kept with its item, got %q", spans[1])
	}
}

func TestRuleDetector_YearStillSplits(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect("It happened in 1999. Nobody forgot.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
}

func TestRuleDetector_DecimalNumbers(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect("The value is 3.14 exactly.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d: %v", len(spans), spans)
	}
}

func TestRuleDetector_ClosingQuote(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect(`He said "Stop!" Nobody moved.`, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	if spans[0] != `He said "Stop!"` {
		t.Errorf("expected quote kept with sentence, got %q", spans[0])
	}
}

func TestRuleDetector_Paragraphs(t *testing.T) {
	det := sentence.NewRuleDetector()

	spans, err := det.Detect("First paragraph line\n\nSecond paragraph line", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
}

func TestRuleDetector_UnsupportedLanguage(t *testing.T) {
	det := sentence.NewRuleDetector()

	_, err := det.Detect("Hello.", "uk")
	var langErr *sentence.UnsupportedLanguageError
	if !errors.As(err, &langErr) {
		t.Fatalf("expected UnsupportedLanguageError, got %v", err)
	}
}

// --- end-to-end segmentation ---

func TestSegment_EndToEndWithRuleDetector(t *testing.T) {
	seg := sentence.NewSegmenter(sentence.NewRuleDetector())

	got, err := seg.Segment("Hello world. , and goodbye. another fragment here.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 sentence after merging, got %d: %v", len(got), got)
	}
	want := "Hello world. , and goodbye. another fragment here."
	if got[0].Text != want {
		t.Errorf("expected %q, got %q", want, got[0].Text)
	}
}

func TestSegment_EllipsisFragmentsMergeBack(t *testing.T) {
	seg := sentence.NewSegmenter(sentence.NewRuleDetector())

	got, err := seg.Segment("Wait... what happened? Then we left.", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
	if got[0].Text != "Wait... what happened?" {
		t.Errorf("expected ellipsis fragment merged, got %q", got[0].Text)
	}
}

// --- FormatNumbered tests ---

func TestFormatNumbered(t *testing.T) {
	sents := []sentence.Sentence{
		{Number: 1, Text: "First."},
		{Number: 2, Text: "Second."},
	}
	got := sentence.FormatNumbered(sents)
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0] != "1. First." {
		t.Errorf("expected %q, got %q", "1. First.", got[0])
	}
	if got[1] != "2. Second." {
		t.Errorf("expected %q, got %q", "2. Second.", got[1])
	}
}
