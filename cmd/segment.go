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

	"github.com/spf13/cobra"

	"github.com/valpere/lectran/internal/sentence"
)

var (
	segmentInput     string
	segmentLanguage  string
	segmentContainer string
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Split a text into numbered sentences",
	Long: `Split a text into sentences using the rule-based boundary detector
and print them one per line, numbered the way the translation prompt
receives them.

Examples:
  lectran segment -i lesson.txt
  lectran segment -i lecon.txt -s fr`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		text, _, err := readSource(ctx, segmentInput, segmentContainer)
		if err != nil {
			return err
		}

		lang := segmentLanguage
		if lang == "" {
			lang = appConfig.Languages.Source
		}
		if lang == "auto" {
			lang, _ = detectSource(text)
		}

		seg := sentence.NewSegmenter(sentence.NewRuleDetector())
		sentences, err := seg.Segment(text, lang)
		if err != nil {
			return err
		}

		for _, line := range sentence.FormatNumbered(sentences) {
			fmt.Println(line)
		}
		fmt.Fprintf(os.Stderr, "%d sentences\n", len(sentences))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().StringVarP(&segmentInput, "input", "i", "", "Input file or document locator (required)")
	segmentCmd.Flags().StringVarP(&segmentLanguage, "language", "l", "", "Language code, or auto to detect (default: languages.source)")
	segmentCmd.Flags().StringVar(&segmentContainer, "container", "", "Container the input path resolves under")

	segmentCmd.MarkFlagRequired("input")
}
