package store

import (
	"context"
	"time"
)

const createVideo = `
INSERT INTO videos (id, title, channel, language, transcript_type, provenance, searchable_transcript, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, '', $7);
`

type CreateVideoParams struct {
	ID             string
	Title          string
	Channel        string
	Language       string
	TranscriptType TranscriptType
	Provenance     string
	FetchedAt      time.Time
}

func (q *Queries) CreateVideo(ctx context.Context, arg CreateVideoParams) error {
	_, err := q.db.ExecContext(
		ctx,
		createVideo,
		arg.ID,
		arg.Title,
		arg.Channel,
		arg.Language,
		arg.TranscriptType,
		arg.Provenance,
		arg.FetchedAt,
	)
	return err
}

const createTranscript = `
INSERT INTO transcripts (video_id, start, duration, text)
VALUES ($1, $2, $3, $4)
RETURNING id;
`

type CreateTranscriptParams struct {
	VideoID  string
	Start    float64
	Duration float64
	Text     string
}

func (q *Queries) CreateTranscript(ctx context.Context, arg CreateTranscriptParams) (int64, error) {
	row := q.db.QueryRowContext(
		ctx,
		createTranscript,
		arg.VideoID,
		arg.Start,
		arg.Duration,
		arg.Text,
	)

	var id int64
	err := row.Scan(&id)
	return id, err
}

const setSearchableTranscript = `
UPDATE videos SET searchable_transcript = $1 WHERE id = $2;
`

func (q *Queries) SetSearchableTranscript(
	ctx context.Context,
	videoID string,
	searchable string,
) error {
	_, err := q.db.ExecContext(ctx, setSearchableTranscript, searchable, videoID)
	return err
}

const video = `
SELECT id, title, channel, language, transcript_type, provenance, searchable_transcript, fetched_at, created_at
FROM videos WHERE id = $1;
`

func (q *Queries) Video(ctx context.Context, id string) (Video, error) {
	row := q.db.QueryRowContext(ctx, video, id)

	var i Video
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Channel,
		&i.Language,
		&i.TranscriptType,
		&i.Provenance,
		&i.SearchableTranscript,
		&i.FetchedAt,
		&i.CreatedAt,
	)
	return i, err
}

const videoExists = `
SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1);
`

func (q *Queries) VideoExists(ctx context.Context, id string) (bool, error) {
	row := q.db.QueryRowContext(ctx, videoExists, id)

	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const recentVideos = `
SELECT id, title, channel, language, transcript_type, provenance, searchable_transcript, fetched_at, created_at
FROM videos ORDER BY fetched_at DESC LIMIT $1;
`

func (q *Queries) RecentVideos(ctx context.Context, limit int) ([]Video, error) {
	rows, err := q.db.QueryContext(ctx, recentVideos, limit)
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

const transcriptsOfVideo = `
SELECT id, video_id, start, duration, text
FROM transcripts WHERE video_id = $1 ORDER BY start;
`

func (q *Queries) TranscriptsOfVideo(ctx context.Context, videoID string) ([]Transcript, error) {
	rows, err := q.db.QueryContext(ctx, transcriptsOfVideo, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Transcript
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

const countVideos = `
SELECT COUNT(*) FROM videos;
`

func (q *Queries) CountVideos(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countVideos)

	var count int64
	err := row.Scan(&count)
	return count, err
}
