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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/lectran/internal/pipeline"
	"github.com/valpere/lectran/internal/store"
)

var (
	inputFile     string
	outputFile    string
	sourceLang    string
	containerName string
	glossaryFile  string
	noGrammar     bool
	noCache       bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a lesson script through the full pipeline",
	Long: `Translate a lesson script through the full pipeline: grammar
correction, sentence-by-sentence translation with the terminology
glossary, and a length adjustment pass when the translation drifts
outside the configured tolerance.

The input is a local text or markdown file, or a document locator
(a full URL, or a path combined with --container) resolved against
the content root.

Examples:
  lectran translate -i lesson.md -o lesson_fr.txt
  lectran translate -i lessons/unit1/intro.txt --container cad-course
  lectran translate -i lesson.txt --source auto --no-cache`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		ctx := context.Background()

		text, source, err := readSource(ctx, inputFile, containerName)
		if err != nil {
			return err
		}

		srcCode := sourceLang
		inputName := appConfig.Languages.InputName
		if srcCode == "auto" {
			srcCode, inputName = detectSource(text)
		}
		tgtCode := appConfig.Languages.Target
		outputName := appConfig.Languages.OutputName

		var db *store.Store
		if !noCache {
			db, err = openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if cached, found, cacheErr := db.GetCachedTranslation(ctx, text, srcCode, tgtCode); cacheErr == nil && found {
				fmt.Fprintf(os.Stderr, "Using cached translation\n")
				if err := writeOutput(outputFile, cached); err != nil {
					return err
				}
				if outputFile != "" {
					fmt.Printf("Successfully translated %s to %s (from cache)\n", inputName, outputName)
				}
				return nil
			}
		}

		prompts, err := loadPrompts()
		if err != nil {
			return err
		}
		gloss, err := mergedGlossary(ctx, db, glossaryFile, srcCode, tgtCode)
		if err != nil {
			return err
		}

		p, err := pipeline.New(pipeline.Params{
			Config:      appConfig,
			Prompts:     prompts,
			NewProvider: newProviderFactory(),
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, pipeline.Request{
			Text:           text,
			Language:       srcCode,
			InputLanguage:  inputName,
			OutputLanguage: outputName,
			Glossary:       gloss,
			SkipGrammar:    noGrammar,
		})
		if err != nil {
			if db != nil {
				rec := store.RunRecord{
					Locator:        source,
					InputLanguage:  inputName,
					OutputLanguage: outputName,
					Status:         store.RunStatusFailed,
					Error:          err.Error(),
				}
				var stageErr *pipeline.StageError
				if errors.As(err, &stageErr) {
					rec.FailedStage = stageErr.Stage
				}
				_, _ = db.SaveRun(ctx, rec)
			}
			return err
		}

		if db != nil {
			_, _ = db.SaveRun(ctx, store.RunRecord{
				Locator:             source,
				InputLanguage:       inputName,
				OutputLanguage:      outputName,
				Status:              store.RunStatusDone,
				OriginalSentences:   res.OriginalSentenceCount,
				TranslatedSentences: res.TranslatedSentenceCount,
				GrammarMs:           res.Timings.Grammar.Milliseconds(),
				TranslationMs:       res.Timings.Translation.Milliseconds(),
				AdjustmentMs:        res.Timings.Adjustment.Milliseconds(),
				TotalMs:             res.Timings.Total.Milliseconds(),
				Adjusted:            res.Adjusted,
			})
			_ = db.SaveToMemory(ctx, text, srcCode, tgtCode, res.TranslatedText, res.DraftText, res.Translation.Provider)
		}

		if err := writeOutput(outputFile, res.TranslatedText); err != nil {
			return err
		}

		if outputFile != "" {
			fmt.Printf("Successfully translated %s to %s\n", inputName, outputName)
			fmt.Printf("Sentences: %d original, %d translated\n", res.OriginalSentenceCount, res.TranslatedSentenceCount)
			if res.Adjusted {
				fmt.Printf("Length adjustment applied\n")
			}
			fmt.Printf("Total time: %s\n", res.Timings.Total.Round(time.Millisecond))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file or document locator (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "Source language code, or auto to detect")
	translateCmd.Flags().StringVar(&containerName, "container", "", "Container the input path resolves under")
	translateCmd.Flags().StringVar(&glossaryFile, "glossary", "", "JSON glossary file replacing the built-in terms")
	translateCmd.Flags().BoolVar(&noGrammar, "no-grammar", false, "Skip the grammar correction stage")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the translation memory and skip run history")

	translateCmd.MarkFlagRequired("input")
}
