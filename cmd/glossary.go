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
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/lectran/internal/glossary"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Manage the terminology glossary",
	Long: `Manage the stored terminology glossary. Stored terms are layered
over the built-in CAD terms for the configured language pair on every
translation.`,
}

var (
	glossaryListSource string
	glossaryListTarget string
)

var glossaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored glossary entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		// Pass empty strings to list everything; flags narrow the filter.
		entries, err := db.ListGlossaryTerms(context.Background(), glossaryListSource, glossaryListTarget)
		if err != nil {
			return fmt.Errorf("failed to list glossary: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("Glossary is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE LANG\tTARGET LANG\tSOURCE TERM\tTARGET TERM")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.SourceLang, e.TargetLang, e.SourceTerm, e.TargetTerm)
		}
		return w.Flush()
	},
}

var (
	glossaryAddSource string
	glossaryAddTarget string
)

var glossaryAddCmd = &cobra.Command{
	Use:   "add <source-term> <target-term>",
	Short: "Add or update a glossary entry",
	Long: `Add a glossary entry mapping a source-language term to a
target-language term.

Example:
  lectran glossary add "sketch" "esquisse"
  lectran glossary add "Bemaßung" "cotation" --source de --target fr`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, tgt := languagePair(glossaryAddSource, glossaryAddTarget)

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.AddGlossaryTerm(context.Background(), src, tgt, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to add glossary entry: %w", err)
		}
		fmt.Printf("Added [%s/%s]: %q = %q\n", src, tgt, args[0], args[1])
		return nil
	},
}

var glossaryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a glossary entry by ID",
	Long: `Delete a glossary entry by its ID (shown in "lectran glossary list").`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteGlossaryTerm(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete glossary entry: %w", err)
		}
		fmt.Printf("Deleted glossary entry: %s\n", args[0])
		return nil
	},
}

var (
	glossaryImportSource string
	glossaryImportTarget string
)

var glossaryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import glossary terms from a JSON file",
	Long: `Import terms from a JSON file of {"term": "translation"} pairs into
the stored glossary for a language pair. Existing entries for the same
terms are replaced.

Example:
  lectran glossary import cad_terms.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, tgt := languagePair(glossaryImportSource, glossaryImportTarget)

		terms, err := glossary.Load(args[0])
		if err != nil {
			return err
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ImportGlossary(context.Background(), src, tgt, terms)
		if err != nil {
			return fmt.Errorf("failed to import glossary: %w", err)
		}
		fmt.Printf("Imported %d terms for %s/%s\n", n, src, tgt)
		return nil
	},
}

var (
	glossaryExportSource string
	glossaryExportTarget string
	glossaryExportOutput string
)

var glossaryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored glossary terms as JSON",
	Long: `Export the stored glossary terms for a language pair as a JSON file
usable with --glossary or "glossary import".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, tgt := languagePair(glossaryExportSource, glossaryExportTarget)

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		terms, err := db.GetGlossaryTerms(context.Background(), src, tgt)
		if err != nil {
			return fmt.Errorf("failed to load glossary terms: %w", err)
		}

		data, err := json.MarshalIndent(terms, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode glossary: %w", err)
		}
		if err := writeOutput(glossaryExportOutput, string(data)); err != nil {
			return err
		}
		if glossaryExportOutput != "" {
			fmt.Printf("Exported %d terms to %s\n", len(terms), glossaryExportOutput)
		}
		return nil
	},
}

var glossaryDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show the built-in CAD glossary",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(glossary.Default().FormatArrow())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(glossaryCmd)

	glossaryListCmd.Flags().StringVarP(&glossaryListSource, "source", "s", "", "Filter by source language code")
	glossaryListCmd.Flags().StringVarP(&glossaryListTarget, "target", "t", "", "Filter by target language code")

	glossaryAddCmd.Flags().StringVarP(&glossaryAddSource, "source", "s", "", "Source language code (default: languages.source)")
	glossaryAddCmd.Flags().StringVarP(&glossaryAddTarget, "target", "t", "", "Target language code (default: languages.target)")

	glossaryImportCmd.Flags().StringVarP(&glossaryImportSource, "source", "s", "", "Source language code (default: languages.source)")
	glossaryImportCmd.Flags().StringVarP(&glossaryImportTarget, "target", "t", "", "Target language code (default: languages.target)")

	glossaryExportCmd.Flags().StringVarP(&glossaryExportSource, "source", "s", "", "Source language code (default: languages.source)")
	glossaryExportCmd.Flags().StringVarP(&glossaryExportTarget, "target", "t", "", "Target language code (default: languages.target)")
	glossaryExportCmd.Flags().StringVarP(&glossaryExportOutput, "output", "o", "", "Output file (default: stdout)")

	glossaryCmd.AddCommand(glossaryListCmd)
	glossaryCmd.AddCommand(glossaryAddCmd)
	glossaryCmd.AddCommand(glossaryDeleteCmd)
	glossaryCmd.AddCommand(glossaryImportCmd)
	glossaryCmd.AddCommand(glossaryExportCmd)
	glossaryCmd.AddCommand(glossaryDefaultsCmd)
}
