// Package mt provides the machine translation clients used by the
// three-step workflow and CSV batch jobs: DeepL's REST API and Google
// Cloud Translation.
package mt

import "context"

// Request is one machine translation call.
type Request struct {
	Text       string
	SourceLang string // "" or "auto" lets the service detect
	TargetLang string
}

// Translator is a single machine translation service.
type Translator interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}
