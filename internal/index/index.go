package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/laytan/tubescribe/internal/runlog"
	"github.com/laytan/tubescribe/internal/stem"
	"github.com/laytan/tubescribe/internal/store"
)

var (
	Queries *store.Queries
	Db      *sql.DB

	ErrAlreadyIndexed = errors.New("already indexed")
)

// IndexLog moves every successful record of a run log into the corpus,
// calling IndexRecord on each of them. Videos already in the corpus and
// failed attempts are skipped; a run log can be imported again after a
// resumed run without duplicating anything.
func IndexLog(ctx context.Context, path string) (added int, err error) {
	records, err := runlog.Records(path)
	if err != nil {
		return 0, err
	}

	for _, rec := range records {
		if rec.Status != runlog.StatusOK {
			continue
		}

		log.Printf("[INFO]: indexing %q - %q", rec.VideoID, rec.Title)
		if err := IndexRecord(ctx, rec); err != nil {
			if errors.Is(err, ErrAlreadyIndexed) {
				log.Printf("[INFO]: %q already in the corpus, skipping", rec.VideoID)
				continue
			}

			return added, fmt.Errorf("indexing %s failed: %w", rec.VideoID, err)
		}

		added++
	}

	return added, nil
}

// SearchableLine is the searchable encoding of one transcript line: the
// stemmed text prefixed with "~<id>~ " so a match can be traced back to its
// line. The space after the closing tilde doubles as the word boundary
// between neighbouring lines. Lines that stem to nothing encode to the
// empty string, they would only break up phrases spoken across lines.
func SearchableLine(id int64, text string) string {
	stemmed := stem.StemLine(text)
	if stemmed == "" {
		return ""
	}

	return "~" + strconv.FormatInt(id, 10) + "~ " + stemmed
}

// IndexRecord creates the store.Video with its store.Transcript lines and
// the searchable encoding, all in one transaction.
//
// The searchable encoding is one SearchableLine per transcript row,
// concatenated:
//
//	~12~ hello world~13~ welcome back
func IndexRecord(ctx context.Context, rec runlog.Record) error {
	exists, err := Queries.VideoExists(ctx, rec.VideoID)
	if err != nil {
		return fmt.Errorf("checking for video %q: %w", rec.VideoID, err)
	}
	if exists {
		return fmt.Errorf("video %s: %w", rec.VideoID, ErrAlreadyIndexed)
	}

	tx, err := Db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // Rollback, ignore error which is returned if tx is committed.

	qtx := Queries.WithTx(tx)

	if err := qtx.CreateVideo(ctx, store.CreateVideoParams{
		ID:             rec.VideoID,
		Title:          rec.Title,
		Channel:        rec.Channel,
		Language:       rec.Language,
		TranscriptType: store.TypeOf(rec.Auto),
		Provenance:     rec.Provenance,
		FetchedAt:      rec.FetchedAt,
	}); err != nil {
		return fmt.Errorf("creating video %q: %w", rec.VideoID, err)
	}

	searchable := strings.Builder{}
	for _, seg := range rec.Segments {
		id, err := qtx.CreateTranscript(ctx, store.CreateTranscriptParams{
			VideoID:  rec.VideoID,
			Start:    seg.Start,
			Duration: seg.Duration,
			Text:     seg.Text,
		})
		if err != nil {
			return fmt.Errorf("creating transcript line of %q: %w", rec.VideoID, err)
		}

		searchable.WriteString(SearchableLine(id, seg.Text))
	}

	if err := qtx.SetSearchableTranscript(ctx, rec.VideoID, searchable.String()); err != nil {
		return fmt.Errorf("setting searchable transcript of %q: %w", rec.VideoID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
