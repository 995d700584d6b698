package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateVideosAndTranscripts, downCreateVideosAndTranscripts)
}

func upCreateVideosAndTranscripts(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE videos (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			channel TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			transcript_type TEXT NOT NULL,
			provenance TEXT NOT NULL DEFAULT 'manual',
			searchable_transcript TEXT NOT NULL DEFAULT '',
			fetched_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE transcripts (
			id BIGSERIAL PRIMARY KEY,
			video_id TEXT NOT NULL REFERENCES videos (id) ON DELETE CASCADE,
			start DOUBLE PRECISION NOT NULL,
			duration DOUBLE PRECISION NOT NULL,
			text TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating corpus tables: %w", err)
		}
	}

	return nil
}

func downCreateVideosAndTranscripts(tx *sql.Tx) error {
	for _, stmt := range []string{
		"DROP TABLE transcripts;",
		"DROP TABLE videos;",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("dropping corpus tables: %w", err)
		}
	}

	return nil
}
