package mt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// DefaultDeepLURL is the free-tier endpoint.
const DefaultDeepLURL = "https://api-free.deepl.com/v2/translate"

const deeplAttempts = 3

// DeepLService calls the DeepL v2 translate endpoint.
type DeepLService struct {
	apiKey     string
	baseURL    string
	docContext string
	client     *http.Client
}

// NewDeepLService builds a DeepL client. docContext, when non-empty,
// is sent as translation context with every request. An empty baseURL
// selects the free-tier endpoint.
func NewDeepLService(apiKey, baseURL, docContext string, timeout time.Duration) *DeepLService {
	if baseURL == "" {
		baseURL = DefaultDeepLURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DeepLService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		docContext: docContext,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *DeepLService) Name() string {
	return "deepl"
}

type deeplRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang,omitempty"`
	Context    string   `json:"context,omitempty"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate sends one text to DeepL. Transient failures (network
// errors, 429 and 5xx responses) are retried; client errors are not.
func (s *DeepLService) Translate(ctx context.Context, req Request) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("DeepL API key required")
	}

	payload := deeplRequest{
		Text:       []string{req.Text},
		TargetLang: req.TargetLang,
		Context:    s.docContext,
	}
	if req.SourceLang != "" && req.SourceLang != "auto" {
		payload.SourceLang = req.SourceLang
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var translated string
	err = retry.Do(
		func() error {
			text, err := s.translateOnce(ctx, jsonData)
			if err != nil {
				return err
			}
			translated = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(deeplAttempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("deepl: %w", err)
	}
	return translated, nil
}

func (s *DeepLService) translateOnce(ctx context.Context, jsonData []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", apiErr
		}
		return "", retry.Unrecoverable(apiErr)
	}

	var deeplResp deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&deeplResp); err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("failed to decode response: %w", err))
	}
	if len(deeplResp.Translations) == 0 {
		return "", retry.Unrecoverable(fmt.Errorf("no translations in response"))
	}
	return deeplResp.Translations[0].Text, nil
}
