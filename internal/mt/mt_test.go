package mt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDeepLService_Name(t *testing.T) {
	svc := NewDeepLService("key", "", "", 0)

	if svc.Name() != "deepl" {
		t.Errorf("expected 'deepl', got %q", svc.Name())
	}
}

func TestDeepLService_Translate_NoAPIKey(t *testing.T) {
	svc := NewDeepLService("", "", "", 0)

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "FR"})
	if err == nil {
		t.Error("expected error when no API key")
	}
}

func TestDeepLService_Translate_Success(t *testing.T) {
	var gotAuth string
	var gotBody deeplRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"translations": []map[string]string{
				{"detected_source_language": "EN", "text": "Bonjour le monde."},
			},
		})
	}))
	defer server.Close()

	svc := &DeepLService{
		apiKey:     "test-key",
		baseURL:    server.URL,
		docContext: "CAD Tutorial Script",
		client:     server.Client(),
	}

	text, err := svc.Translate(context.Background(), Request{Text: "Hello world.", TargetLang: "FR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Bonjour le monde." {
		t.Errorf("expected 'Bonjour le monde.', got %q", text)
	}
	if gotAuth != "DeepL-Auth-Key test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if len(gotBody.Text) != 1 || gotBody.Text[0] != "Hello world." {
		t.Errorf("unexpected text payload %v", gotBody.Text)
	}
	if gotBody.TargetLang != "FR" {
		t.Errorf("expected target_lang FR, got %q", gotBody.TargetLang)
	}
	if gotBody.Context != "CAD Tutorial Script" {
		t.Errorf("expected document context in payload, got %q", gotBody.Context)
	}
}

func TestDeepLService_Translate_AutoSourceOmitted(t *testing.T) {
	var raw map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"translations": []map[string]string{{"text": "Bonjour"}},
		})
	}))
	defer server.Close()

	svc := &DeepLService{apiKey: "k", baseURL: server.URL, client: server.Client()}

	if _, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "auto", TargetLang: "FR"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, present := raw["source_lang"]; present {
		t.Error("source_lang must be omitted for auto detection")
	}
}

func TestDeepLService_Translate_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Forbidden"))
	}))
	defer server.Close()

	svc := &DeepLService{apiKey: "k", baseURL: server.URL, client: server.Client()}

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "FR"})
	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status in error, got %q", err.Error())
	}
	if calls != 1 {
		t.Errorf("client errors must not be retried, got %d calls", calls)
	}
}

func TestDeepLService_Translate_RetriesServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"translations": []map[string]string{{"text": "Bonjour"}},
		})
	}))
	defer server.Close()

	svc := &DeepLService{apiKey: "k", baseURL: server.URL, client: server.Client()}

	text, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "FR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Bonjour" {
		t.Errorf("expected 'Bonjour', got %q", text)
	}
	if calls != 2 {
		t.Errorf("expected a retry after 503, got %d calls", calls)
	}
}

func TestDeepLService_Translate_EmptyTranslations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"translations": []map[string]string{}})
	}))
	defer server.Close()

	svc := &DeepLService{apiKey: "k", baseURL: server.URL, client: server.Client()}

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "FR"})
	if err == nil {
		t.Error("expected error for empty translations")
	}
}

func TestDeepLService_DefaultTimeout(t *testing.T) {
	svc := NewDeepLService("k", "", "", 0)

	if svc.client.Timeout != 10*time.Second {
		t.Errorf("expected 10s default timeout, got %v", svc.client.Timeout)
	}
}

func TestGoogleService_Name(t *testing.T) {
	svc := NewGoogleService("")

	if svc.Name() != "google" {
		t.Errorf("expected 'google', got %q", svc.Name())
	}
}

func TestGoogleService_Translate_InvalidTarget(t *testing.T) {
	svc := NewGoogleService("")

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "!!"})
	if err == nil {
		t.Error("expected error for invalid target language")
	}
}
