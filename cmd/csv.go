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
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valpere/lectran/internal/detector"
	"github.com/valpere/lectran/internal/mt"
	"github.com/valpere/lectran/internal/store"
)

var (
	csvInputFile  string
	csvOutputFile string
	csvSourceLang string
	csvTargetLang string
	csvColumns    []int
	csvNoCache    bool
	csvResume     string
)

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Translate CSV cells through the machine translation service",
	Long: `Translate the cells of a CSV file one by one through the configured
machine translation service, preserving the file's shape.

Every translated cell is checkpointed, so an interrupted job can be
resumed with --resume without repeating finished cells. Cells already
in the translation memory are reused without a service call. A cell
that fails to translate stops the job; rerun with --resume to pick up
where it left off.

Examples:
  lectran translate csv -i terms.csv -o terms_fr.csv
  lectran translate csv -i terms.csv -o terms_fr.csv --column 1 --column 2
  lectran translate csv -i terms.csv -o terms_fr.csv --resume 1f0c2a...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if csvInputFile == csvOutputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		ctx := context.Background()

		f, err := os.Open(csvInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("input CSV is empty")
		}

		target := csvTargetLang
		if target == "" {
			target = appConfig.MT.Target
		}

		// Sample the second row for detection; the first is usually a
		// header.
		srcLang := csvSourceLang
		if srcLang == "auto" {
			sample := records[0][0]
			if len(records) > 1 && len(records[1]) > 0 {
				sample = records[1][0]
			}
			det := detector.New()
			if code, ok := det.Code(sample); ok {
				srcLang = code
				fmt.Fprintf(os.Stderr, "Detected source language: %s\n", srcLang)
			} else {
				srcLang = appConfig.Languages.Source
			}
		}

		var db *store.Store
		if !csvNoCache {
			db, err = openStore()
			if err != nil {
				return err
			}
			defer db.Close()
		}

		var checkpointID string
		completedCells := make(map[string]string)

		if csvResume != "" {
			if db == nil {
				return fmt.Errorf("--resume cannot be combined with --no-cache")
			}
			if _, cpErr := db.GetCSVCheckpoint(ctx, csvResume); cpErr != nil {
				return fmt.Errorf("failed to load checkpoint: %w", cpErr)
			}
			checkpointID = csvResume
			cells, cpErr := db.GetCSVCells(ctx, checkpointID)
			if cpErr != nil {
				return fmt.Errorf("failed to load checkpoint cells: %w", cpErr)
			}
			completedCells = cells
			fmt.Fprintf(os.Stderr, "Resuming checkpoint %s (%d cells already done)\n", checkpointID, len(completedCells))
		} else if db != nil {
			checkpointID, err = db.CreateCSVCheckpoint(ctx, csvInputFile, csvOutputFile, srcLang, target)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to create checkpoint: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "Checkpoint ID: %s (use --resume %s to resume if interrupted)\n", checkpointID, checkpointID)
			}
		}

		svc, err := buildTranslator()
		if err != nil {
			return err
		}

		colSet := make(map[int]bool, len(csvColumns))
		for _, c := range csvColumns {
			colSet[c] = true
		}
		translateAll := len(csvColumns) == 0

		out := make([][]string, len(records))
		for rowIdx, row := range records {
			out[rowIdx] = make([]string, len(row))
			copy(out[rowIdx], row)

			for colIdx, cell := range row {
				if !translateAll && !colSet[colIdx] {
					continue
				}
				if cell == "" {
					continue
				}

				cellKey := fmt.Sprintf("%d:%d", rowIdx, colIdx)

				if translated, done := completedCells[cellKey]; done {
					out[rowIdx][colIdx] = translated
					continue
				}

				if db != nil {
					if cached, found, cacheErr := db.GetCachedTranslation(ctx, cell, srcLang, target); cacheErr == nil && found {
						out[rowIdx][colIdx] = cached
						if checkpointID != "" {
							_ = db.SaveCSVCell(ctx, checkpointID, rowIdx, colIdx, cached)
						}
						continue
					}
				}

				translated, trErr := svc.Translate(ctx, mt.Request{
					Text:       cell,
					SourceLang: srcLang,
					TargetLang: target,
				})
				if trErr != nil {
					if checkpointID != "" {
						fmt.Fprintf(os.Stderr, "Progress saved; resume with --resume %s\n", checkpointID)
					}
					return fmt.Errorf("failed to translate row %d column %d: %w", rowIdx, colIdx, trErr)
				}

				out[rowIdx][colIdx] = translated

				if db != nil {
					_ = db.SaveToMemory(ctx, cell, srcLang, target, translated, "", svc.Name())
					if checkpointID != "" {
						_ = db.SaveCSVCell(ctx, checkpointID, rowIdx, colIdx, translated)
					}
				}
			}
		}

		if dir := filepath.Dir(csvOutputFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		outFile, err := os.Create(csvOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output CSV: %w", err)
		}
		defer outFile.Close()

		writer := csv.NewWriter(outFile)
		if err := writer.WriteAll(out); err != nil {
			return fmt.Errorf("failed to write output CSV: %w", err)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("failed to flush output CSV: %w", err)
		}

		if db != nil && checkpointID != "" {
			_ = db.CompleteCSVCheckpoint(ctx, checkpointID)
		}

		fmt.Printf("CSV translated successfully: %s\n", csvOutputFile)
		return nil
	},
}

func init() {
	translateCmd.AddCommand(csvCmd)

	csvCmd.Flags().StringVarP(&csvInputFile, "input", "i", "", "Input CSV file (required)")
	csvCmd.Flags().StringVarP(&csvOutputFile, "output", "o", "", "Output CSV file (required)")
	csvCmd.Flags().StringVarP(&csvSourceLang, "source", "s", "auto", "Source language code, or auto to detect")
	csvCmd.Flags().StringVarP(&csvTargetLang, "target", "t", "", "Target language code (default: mt.target from config)")
	csvCmd.Flags().IntSliceVar(&csvColumns, "column", nil, "Column index to translate (0-indexed, repeatable; default: all columns)")
	csvCmd.Flags().BoolVar(&csvNoCache, "no-cache", false, "Disable translation memory and checkpoints")
	csvCmd.Flags().StringVar(&csvResume, "resume", "", "Resume from checkpoint ID (printed at start of the original run)")

	csvCmd.MarkFlagRequired("input")
	csvCmd.MarkFlagRequired("output")
}
