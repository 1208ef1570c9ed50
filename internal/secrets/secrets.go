// Package secrets resolves backend API keys by name. The pipeline only
// ever asks a Source for a named secret; where the value lives is the
// caller's concern.
package secrets

import (
	"fmt"
	"os"
)

// Source returns the secret value for a name, or an error when it is
// not available.
type Source interface {
	Get(name string) (string, error)
}

// Env resolves secret names as environment variables.
type Env struct{}

func (Env) Get(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("secret %q not set in environment", name)
	}
	return v, nil
}

// Static serves secrets from a fixed map.
type Static map[string]string

func (s Static) Get(name string) (string, error) {
	v, ok := s[name]
	if !ok || v == "" {
		return "", fmt.Errorf("secret %q not found", name)
	}
	return v, nil
}
