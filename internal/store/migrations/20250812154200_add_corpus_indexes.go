package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upAddCorpusIndexes, downAddCorpusIndexes)
}

// The search page lists by fetch time and resolves matched lines by video,
// both were sequential scans.
func upAddCorpusIndexes(tx *sql.Tx) error {
	for _, stmt := range []string{
		"CREATE INDEX transcripts_video_id_idx ON transcripts (video_id);",
		"CREATE INDEX videos_fetched_at_idx ON videos (fetched_at DESC);",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	return nil
}

func downAddCorpusIndexes(tx *sql.Tx) error {
	for _, stmt := range []string{
		"DROP INDEX transcripts_video_id_idx;",
		"DROP INDEX videos_fetched_at_idx;",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("dropping index: %w", err)
		}
	}

	return nil
}
