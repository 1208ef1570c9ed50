package detector

import (
	"testing"
)

func TestDetector_Code(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{
			name:     "empty text",
			text:     "",
			wantCode: "",
			wantOK:   false,
		},
		{
			name:     "english lesson",
			text:     "In this lesson we sketch the base profile and extrude it.",
			wantCode: "en",
			wantOK:   true,
		},
		{
			name:     "french lesson",
			text:     "Dans cette leçon, nous esquissons le profil de base et nous l'extrudons.",
			wantCode: "fr",
			wantOK:   true,
		},
		{
			name:     "german lesson",
			text:     "In dieser Lektion skizzieren wir das Grundprofil und extrudieren es.",
			wantCode: "de",
			wantOK:   true,
		},
		{
			name:     "spanish lesson",
			text:     "En esta lección dibujamos el perfil base y lo extruimos.",
			wantCode: "es",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.Code(tt.text)
			if ok != tt.wantOK {
				t.Errorf("Code(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && code != tt.wantCode {
				t.Errorf("Code(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestDetector_Name(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantName string
		wantOK   bool
	}{
		{
			name:     "empty text",
			text:     "",
			wantName: "",
			wantOK:   false,
		},
		{
			name:     "english lesson",
			text:     "Open the sketch toolbar and select the line tool to begin.",
			wantName: "English",
			wantOK:   true,
		},
		{
			name:     "french lesson",
			text:     "Ouvrez la barre d'esquisse et sélectionnez l'outil ligne pour commencer.",
			wantName: "French",
			wantOK:   true,
		},
		{
			name:     "german lesson",
			text:     "Öffnen Sie die Skizzenleiste und wählen Sie das Linienwerkzeug aus.",
			wantName: "German",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := d.Name(tt.text)
			if ok != tt.wantOK {
				t.Errorf("Name(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && name != tt.wantName {
				t.Errorf("Name(%q) = %q, want %q", tt.text, name, tt.wantName)
			}
		})
	}
}

func TestDetector_ShortText(t *testing.T) {
	d := New()

	// Short text may or may not be detected; only the contract that it
	// never panics and reports a consistent pair matters.
	code, ok := d.Code("Hi")
	if ok && code == "" {
		t.Errorf("detection reported ok with an empty code")
	}
}
