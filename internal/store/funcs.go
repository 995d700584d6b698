package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

func (t *Transcript) StartDuration() time.Duration {
	return time.Duration(t.Start * float64(time.Second))
}

// TranscriptsByIds is an optimized implementation to retrieve a lot of transcripts by their ID's.
func (q *Queries) TranscriptsByIds(
	ctx context.Context,
	ids []int64,
) (map[int64]*Transcript, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		log.Printf("[INFO]: transcripts query took %s", time.Since(start))
	}()

	query := strings.Builder{}
	query.WriteString("SELECT id, video_id, start, duration, text FROM transcripts WHERE id IN (")
	ifs := make([]interface{}, len(ids))
	for i := range ids {
		if i > 0 {
			query.WriteString(",")
		}
		fmt.Fprintf(&query, "$%d", i+1)
		ifs[i] = ids[i]
	}
	query.WriteString(");")

	rows, err := q.db.QueryContext(ctx, query.String(), ifs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make(map[int64]*Transcript, len(ids))
	for rows.Next() {
		var i Transcript
		if err := rows.Scan(
			&i.ID,
			&i.VideoID,
			&i.Start,
			&i.Duration,
			&i.Text,
		); err != nil {
			return nil, err
		}
		items[i.ID] = &i
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// VideosWithWords is an optimized query to retrieve videos that might be a
// match for a query, words must be stemmed. Matches are optimistic: the
// words have to appear, but not necessarily in order or adjacent, the search
// package narrows them down.
func (q *Queries) VideosWithWords(ctx context.Context, words []string) ([]Video, error) {
	if len(words) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		log.Printf("[INFO]: videos query took %s", time.Since(start))
	}()

	query := strings.Builder{}
	query.WriteString(
		"SELECT id, title, channel, language, transcript_type, provenance, searchable_transcript, fetched_at, created_at FROM videos",
	)
	ifs := make([]interface{}, len(words))
	for i, word := range words {
		if i == 0 {
			query.WriteString(" WHERE")
		} else {
			query.WriteString(" AND")
		}
		fmt.Fprintf(&query, " searchable_transcript LIKE '%%' || $%d || '%%'", i+1)
		ifs[i] = word
	}
	query.WriteString(";")

	rows, err := q.db.QueryContext(ctx, query.String(), ifs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Video
	for rows.Next() {
		var i Video
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Channel,
			&i.Language,
			&i.TranscriptType,
			&i.Provenance,
			&i.SearchableTranscript,
			&i.FetchedAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
