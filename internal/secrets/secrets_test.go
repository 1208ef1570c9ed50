package secrets_test

import (
	"testing"

	"github.com/valpere/lectran/internal/secrets"
)

func TestEnv_Get(t *testing.T) {
	t.Setenv("LECTRAN_TEST_SECRET", "sk-test")

	v, err := secrets.Env{}.Get("LECTRAN_TEST_SECRET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "sk-test" {
		t.Errorf("expected %q, got %q", "sk-test", v)
	}
}

func TestEnv_GetMissing(t *testing.T) {
	if _, err := (secrets.Env{}).Get("LECTRAN_TEST_SECRET_MISSING"); err == nil {
		t.Error("expected error for unset secret")
	}
}

func TestStatic_Get(t *testing.T) {
	src := secrets.Static{"api-key": "value"}

	v, err := src.Get("api-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "value" {
		t.Errorf("expected %q, got %q", "value", v)
	}
	if _, err := src.Get("other"); err == nil {
		t.Error("expected error for unknown secret")
	}
}
