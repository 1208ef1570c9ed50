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

	"github.com/spf13/cobra"

	"github.com/valpere/lectran/internal/workflow"
)

var (
	workflowInput     string
	workflowOutput    string
	workflowSource    string
	workflowTarget    string
	workflowContainer string
	workflowNoGrammar bool
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Run the three-step workflow with machine translation",
	Long: `Run the lighter three-step workflow: load and count the text,
correct grammar and split it into numbered sentences, then translate
the numbered block through the configured machine translation service.

Unlike the full pipeline there is no length adjustment; use this when
speed matters more than dubbing-ready output.

Examples:
  lectran workflow -i lesson.txt -o lesson_fr.txt
  lectran workflow -i lesson.md -t DE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if workflowOutput != "" && workflowInput == workflowOutput {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		ctx := context.Background()

		text, _, err := readSource(ctx, workflowInput, workflowContainer)
		if err != nil {
			return err
		}

		srcCode := workflowSource
		if srcCode == "" {
			srcCode = appConfig.Languages.Source
		}
		if srcCode == "auto" {
			srcCode, _ = detectSource(text)
		}

		svc, err := buildTranslator()
		if err != nil {
			return err
		}
		prompts, err := loadPrompts()
		if err != nil {
			return err
		}

		wf, err := workflow.New(workflow.Params{
			Config:      appConfig,
			Prompts:     prompts,
			NewProvider: newProviderFactory(),
			Translator:  svc,
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		res, err := wf.Execute(ctx, workflow.Request{
			Text:           text,
			Language:       srcCode,
			TargetLanguage: workflowTarget,
			SkipGrammar:    workflowNoGrammar,
		})
		if err != nil {
			return err
		}

		if err := writeOutput(workflowOutput, res.Translated.TranslatedText); err != nil {
			return err
		}

		if workflowOutput != "" {
			fmt.Printf("Workflow complete: %s to %s\n", res.Translated.SourceLanguage, res.Translated.TargetLanguage)
			fmt.Printf("Original: %d characters, %d words\n", res.Original.CharCount, res.Original.WordCount)
			fmt.Printf("Sentences: %d corrected, %d translated\n", res.Corrected.SentenceCount, res.Translated.SentenceCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workflowCmd)

	workflowCmd.Flags().StringVarP(&workflowInput, "input", "i", "", "Input file or document locator (required)")
	workflowCmd.Flags().StringVarP(&workflowOutput, "output", "o", "", "Output file (default: stdout)")
	workflowCmd.Flags().StringVarP(&workflowSource, "source", "s", "", "Source language code, or auto to detect (default: languages.source)")
	workflowCmd.Flags().StringVarP(&workflowTarget, "target", "t", "", "Target language code for the MT service (default: mt.target)")
	workflowCmd.Flags().StringVar(&workflowContainer, "container", "", "Container the input path resolves under")
	workflowCmd.Flags().BoolVar(&workflowNoGrammar, "no-grammar", false, "Skip the grammar correction step")

	workflowCmd.MarkFlagRequired("input")
}
