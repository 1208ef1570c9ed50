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

	"github.com/valpere/lectran/internal/summary"
)

var (
	summarizeInput     string
	summarizeOutput    string
	summarizeContainer string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a lesson script and extract action items",
	Long: `Generate a summary and a list of action items for a lesson script
using the global LLM configuration.

Examples:
  lectran summarize -i lesson.txt
  lectran summarize -i lesson.md -o lesson_summary.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		text, _, err := readSource(ctx, summarizeInput, summarizeContainer)
		if err != nil {
			return err
		}

		prompts, err := loadPrompts()
		if err != nil {
			return err
		}
		sum, err := summary.New(summary.Params{
			Config:      appConfig,
			Prompts:     prompts,
			NewProvider: newProviderFactory(),
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		res, err := sum.Summarize(ctx, text)
		if err != nil {
			return err
		}

		out := res.SummarizedText
		if res.ActionItems != "" {
			out += "\n\nAction items:\n" + res.ActionItems
		}
		if err := writeOutput(summarizeOutput, out); err != nil {
			return err
		}
		if summarizeOutput != "" {
			fmt.Printf("Summary written to %s\n", summarizeOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVarP(&summarizeInput, "input", "i", "", "Input file or document locator (required)")
	summarizeCmd.Flags().StringVarP(&summarizeOutput, "output", "o", "", "Output file (default: stdout)")
	summarizeCmd.Flags().StringVar(&summarizeContainer, "container", "", "Container the input path resolves under")

	summarizeCmd.MarkFlagRequired("input")
}
