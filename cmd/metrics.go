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

	"github.com/valpere/lectran/internal/textmetrics"
)

var (
	metricsInput     string
	metricsTarget    string
	metricsContainer string
	metricsTolerance float64
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show word and syllable counts for a text",
	Long: `Measure the word and syllable counts the adjustment stage works
with. With --target, also compute the acceptable range for the source
text and report whether the target falls inside it.

Examples:
  lectran metrics -i lesson.txt
  lectran metrics -i lesson.txt --target lesson_fr.txt
  lectran metrics -i lesson.txt --target lesson_fr.txt --tolerance 0.15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		sourceText, _, err := readSource(ctx, metricsInput, metricsContainer)
		if err != nil {
			return err
		}
		src := textmetrics.Measure(sourceText)
		fmt.Printf("Source words:     %d\n", src.Words)
		fmt.Printf("Source syllables: %d\n", src.Syllables)

		if metricsTarget == "" {
			return nil
		}

		targetText, _, err := readSource(ctx, metricsTarget, metricsContainer)
		if err != nil {
			return err
		}
		tgt := textmetrics.Measure(targetText)
		fmt.Printf("Target words:     %d\n", tgt.Words)
		fmt.Printf("Target syllables: %d\n", tgt.Syllables)

		tolerance := appConfig.Quality.Tolerance
		if metricsTolerance >= 0 {
			tolerance = metricsTolerance
		}
		rng := textmetrics.ComputeRange(src.Words, src.Syllables, tolerance, appConfig.Quality.UseSyllables)
		fmt.Printf("Acceptable words: %d-%d\n", rng.MinWords, rng.MaxWords)
		if rng.UseSyllables {
			fmt.Printf("Acceptable syllables: %d-%d\n", rng.MinSyllables, rng.MaxSyllables)
		}

		if textmetrics.NeedsAdjustment(tgt.Words, tgt.Syllables, rng) {
			fmt.Println("Adjustment needed")
		} else {
			fmt.Println("Within tolerance")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringVarP(&metricsInput, "input", "i", "", "Source text file or document locator (required)")
	metricsCmd.Flags().StringVarP(&metricsTarget, "target", "t", "", "Translated text to compare against the source")
	metricsCmd.Flags().StringVar(&metricsContainer, "container", "", "Container the input path resolves under")
	metricsCmd.Flags().Float64Var(&metricsTolerance, "tolerance", -1, "Tolerance fraction override (default: quality.tolerance)")

	metricsCmd.MarkFlagRequired("input")
}
