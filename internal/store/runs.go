package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunStatusDone   = "done"
	RunStatusFailed = "failed"
)

// RunRecord is one pipeline execution: where the text came from, how
// it went, and how long each stage took.
type RunRecord struct {
	ID                  string
	Locator             string
	InputLanguage       string
	OutputLanguage      string
	Status              string
	FailedStage         string
	Error               string
	OriginalSentences   int
	TranslatedSentences int
	GrammarMs           int64
	TranslationMs       int64
	AdjustmentMs        int64
	TotalMs             int64
	Adjusted            bool
	CreatedAt           time.Time
}

// SaveRun records a finished pipeline execution and returns its ID. A
// missing ID is filled in.
func (s *Store) SaveRun(ctx context.Context, run RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, locator, input_language, output_language, status, failed_stage, error,
			original_sentences, translated_sentences, grammar_ms, translation_ms, adjustment_ms, total_ms, adjusted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Locator, run.InputLanguage, run.OutputLanguage, run.Status, run.FailedStage, run.Error,
		run.OriginalSentences, run.TranslatedSentences, run.GrammarMs, run.TranslationMs, run.AdjustmentMs,
		run.TotalMs, run.Adjusted)
	return run.ID, err
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	var run RunRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, locator, input_language, output_language, status, failed_stage, error,
			original_sentences, translated_sentences, grammar_ms, translation_ms, adjustment_ms, total_ms,
			adjusted, created_at
		 FROM runs WHERE id = ?`, id).Scan(
		&run.ID, &run.Locator, &run.InputLanguage, &run.OutputLanguage, &run.Status, &run.FailedStage,
		&run.Error, &run.OriginalSentences, &run.TranslatedSentences, &run.GrammarMs, &run.TranslationMs,
		&run.AdjustmentMs, &run.TotalMs, &run.Adjusted, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first. Pass limit ≤ 0
// for all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT id, locator, input_language, output_language, status, failed_stage, error,
		original_sentences, translated_sentences, grammar_ms, translation_ms, adjustment_ms, total_ms,
		adjusted, created_at
	 FROM runs ORDER BY created_at DESC, id`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(
			&run.ID, &run.Locator, &run.InputLanguage, &run.OutputLanguage, &run.Status, &run.FailedStage,
			&run.Error, &run.OriginalSentences, &run.TranslatedSentences, &run.GrammarMs, &run.TranslationMs,
			&run.AdjustmentMs, &run.TotalMs, &run.Adjusted, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ClearRuns removes all run history and returns the number of deleted
// rows.
func (s *Store) ClearRuns(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
