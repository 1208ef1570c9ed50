/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/valpere/lectran/internal/detector"
	"github.com/valpere/lectran/internal/glossary"
	"github.com/valpere/lectran/internal/mt"
	"github.com/valpere/lectran/internal/prompt"
	"github.com/valpere/lectran/internal/provider"
	"github.com/valpere/lectran/internal/secrets"
	"github.com/valpere/lectran/internal/storage"
	"github.com/valpere/lectran/internal/store"
	"github.com/valpere/lectran/internal/textin"
)

// openStore opens the SQLite store at the configured path.
func openStore() (*store.Store, error) {
	db, err := store.New(appConfig.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newProviderFactory binds the LLM provider constructor to the process
// environment for API keys.
func newProviderFactory() provider.Factory {
	return provider.NewFactory(secrets.Env{}, appConfig.Secrets)
}

// loadPrompts loads the built-in prompt templates plus any overrides
// from the configured directory.
func loadPrompts() (*prompt.Set, error) {
	return prompt.NewSet(appConfig.Prompts.Dir)
}

// buildTranslator constructs the configured machine translation
// service. The DeepL key is resolved lazily by the service itself, so
// a missing key only fails when a translation is actually requested.
func buildTranslator() (mt.Translator, error) {
	switch appConfig.MT.Service {
	case "google":
		return mt.NewGoogleService(appConfig.MT.Google.CredentialsFile), nil
	case "deepl":
		key, _ := secrets.Env{}.Get(appConfig.Secrets.DeepLKey)
		return mt.NewDeepLService(key, appConfig.MT.DeepL.URL, appConfig.MT.DeepL.Context, appConfig.MT.DeepL.Timeout()), nil
	default:
		return nil, fmt.Errorf("unsupported MT service: %q", appConfig.MT.Service)
	}
}

// mergedGlossary assembles the glossary for a run: the built-ins (or
// the file given with --glossary, which replaces them), with any terms
// stored for the language pair layered on top.
func mergedGlossary(ctx context.Context, db *store.Store, file, sourceLang, targetLang string) (glossary.Glossary, error) {
	base := glossary.Default()
	if file != "" {
		loaded, err := glossary.Load(file)
		if err != nil {
			return nil, err
		}
		base = loaded
	}
	if db != nil {
		terms, err := db.GetGlossaryTerms(ctx, sourceLang, targetLang)
		if err != nil {
			return nil, fmt.Errorf("failed to load glossary terms: %w", err)
		}
		for src, tgt := range terms {
			base[src] = tgt
		}
	}
	return base, nil
}

// readSource loads the text to process. A full URL, or any input
// combined with --container, is read through the content root;
// anything else is a local file, with markdown reduced to plain text.
// The second return value is the name recorded in run history.
func readSource(ctx context.Context, input, container string) (string, string, error) {
	if container != "" || strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		loc, err := storage.ParseLocator(container, input)
		if err != nil {
			return "", "", err
		}
		texts := storage.NewFileStore(appConfig.Content.Root)
		text, err := texts.ReadText(ctx, loc)
		if err != nil {
			return "", "", err
		}
		return text, loc.String(), nil
	}
	text, err := textin.Load(input)
	if err != nil {
		return "", "", err
	}
	return text, input, nil
}

// languagePair fills empty language codes from the configuration.
func languagePair(src, tgt string) (string, string) {
	if src == "" {
		src = appConfig.Languages.Source
	}
	if tgt == "" {
		tgt = appConfig.Languages.Target
	}
	return src, tgt
}

// detectSource resolves an "auto" source language against the text,
// falling back to the configured default. Returns the segmentation
// code and the language name used in prompts.
func detectSource(text string) (string, string) {
	det := detector.New()
	if code, ok := det.Code(text); ok {
		name, _ := det.Name(text)
		if name == "" {
			name = appConfig.Languages.InputName
		}
		fmt.Fprintf(os.Stderr, "Detected source language: %s\n", code)
		return code, name
	}
	return appConfig.Languages.Source, appConfig.Languages.InputName
}

// writeOutput writes text to path, creating parent directories, or
// prints it to stdout when path is empty.
func writeOutput(path, text string) error {
	if path == "" {
		fmt.Println(text)
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
