package store

import "time"

// Video is one transcribed video in the corpus. SearchableTranscript is the
// stemmed encoding of all its transcript lines, see the index package for
// the format.
type Video struct {
	ID                   string
	Title                string
	Channel              string
	Language             string
	TranscriptType       TranscriptType
	Provenance           string
	SearchableTranscript string
	FetchedAt            time.Time
	CreatedAt            time.Time
}

// Transcript is one timed line of a video's transcript. Start and Duration
// are in seconds.
type Transcript struct {
	ID       int64
	VideoID  string
	Start    float64
	Duration float64
	Text     string
}
