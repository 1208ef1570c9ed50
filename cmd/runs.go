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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/lectran/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect pipeline run history",
	Long:  `List and inspect recorded pipeline runs, including per-stage timings.`,
}

var runsListLimit int

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), runsListLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLOCATOR\tLANGUAGES\tSTATUS\tSENTENCES\tADJUSTED\tTOTAL MS\tCREATED")
		for _, r := range runs {
			status := r.Status
			if r.Status == store.RunStatusFailed && r.FailedStage != "" {
				status = fmt.Sprintf("%s (%s)", r.Status, r.FailedStage)
			}
			fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\t%d/%d\t%v\t%d\t%s\n",
				r.ID, r.Locator, r.InputLanguage, r.OutputLanguage, status,
				r.OriginalSentences, r.TranslatedSentences, r.Adjusted,
				r.TotalMs, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		r, err := db.GetRun(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:        %s\n", r.ID)
		fmt.Printf("Locator:   %s\n", r.Locator)
		fmt.Printf("Languages: %s to %s\n", r.InputLanguage, r.OutputLanguage)
		fmt.Printf("Status:    %s\n", r.Status)
		if r.Status == store.RunStatusFailed {
			fmt.Printf("Failed at: %s\n", r.FailedStage)
			fmt.Printf("Error:     %s\n", r.Error)
		}
		fmt.Printf("Sentences: %d original, %d translated\n", r.OriginalSentences, r.TranslatedSentences)
		fmt.Printf("Adjusted:  %v\n", r.Adjusted)
		fmt.Printf("Timings:   grammar %dms, translation %dms, adjustment %dms, total %dms\n",
			r.GrammarMs, r.TranslationMs, r.AdjustmentMs, r.TotalMs)
		fmt.Printf("Created:   %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear runs: %w", err)
		}
		fmt.Printf("Cleared %d runs.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsListCmd.Flags().IntVar(&runsListLimit, "limit", 20, "Maximum runs to list; 0 lists all")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsClearCmd)
}
