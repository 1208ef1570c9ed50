package mt

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService calls the Google Cloud Translation API. The client is
// built per call, from the given credentials file or the ambient
// application-default credentials.
type GoogleService struct {
	credentialsFile string
}

func NewGoogleService(credentialsFile string) *GoogleService {
	return &GoogleService{credentialsFile: credentialsFile}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Translate(ctx context.Context, req Request) (string, error) {
	targetTag, err := language.Parse(req.TargetLang)
	if err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", req.TargetLang, err)
	}

	var opts []option.ClientOption
	if s.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentialsFile))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	var translations []translate.Translation
	if req.SourceLang == "" || req.SourceLang == "auto" {
		translations, err = client.Translate(ctx, []string{req.Text}, targetTag, nil)
	} else {
		sourceTag, parseErr := language.Parse(req.SourceLang)
		if parseErr != nil {
			return "", fmt.Errorf("invalid source language %q: %w", req.SourceLang, parseErr)
		}
		translations, err = client.Translate(ctx, []string{req.Text}, targetTag, &translate.Options{
			Source: sourceTag,
		})
	}
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}
	return translations[0].Text, nil
}
