// Package store persists lectran's local state in a single SQLite
// database: pipeline run history, the translation memory, glossary
// terms and checkpoints for resumable CSV jobs.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	-- runs records one pipeline execution per row, including per-stage timings
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		locator TEXT,
		input_language TEXT NOT NULL,
		output_language TEXT NOT NULL,
		status TEXT NOT NULL,
		failed_stage TEXT,
		error TEXT,
		original_sentences INTEGER DEFAULT 0,
		translated_sentences INTEGER DEFAULT 0,
		grammar_ms INTEGER DEFAULT 0,
		translation_ms INTEGER DEFAULT 0,
		adjustment_ms INTEGER DEFAULT 0,
		total_ms INTEGER DEFAULT 0,
		adjusted BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		final_text TEXT NOT NULL,
		draft_text TEXT,
		service_used TEXT,
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, source_lang, target_lang)
	);

	-- csv_checkpoints tracks progress of CSV translation jobs for resume support
	CREATE TABLE IF NOT EXISTS csv_checkpoints (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		status TEXT DEFAULT 'running',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- csv_checkpoint_cells stores per-cell translated results
	CREATE TABLE IF NOT EXISTS csv_checkpoint_cells (
		checkpoint_id TEXT NOT NULL,
		row_idx INTEGER NOT NULL,
		col_idx INTEGER NOT NULL,
		translated_text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (checkpoint_id, row_idx, col_idx),
		FOREIGN KEY (checkpoint_id) REFERENCES csv_checkpoints(id)
	);

	-- glossary stores user-defined terminology for consistent translation of specific terms
	CREATE TABLE IF NOT EXISTS glossary (
		id TEXT PRIMARY KEY,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		source_term TEXT NOT NULL,
		target_term TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_lang, target_lang, source_term)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(source_text, source_lang, target_lang);
	CREATE INDEX IF NOT EXISTS idx_checkpoint_cells ON csv_checkpoint_cells(checkpoint_id);
	CREATE INDEX IF NOT EXISTS idx_glossary_lookup ON glossary(source_lang, target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
