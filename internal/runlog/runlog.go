package runlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/laytan/tubescribe/internal/bulk"
	"github.com/laytan/tubescribe/internal/tube"
	"github.com/laytan/tubescribe/internal/ytid"
)

// Record is one line of the log: one attempt, success or not. Successful
// records carry the full transcript, the log is the product of a bulk run,
// not just bookkeeping.
type Record struct {
	VideoID    string         `json:"video_id"`
	Title      string         `json:"title,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Provenance string         `json:"provenance,omitempty"`
	Status     string         `json:"status"`
	Kind       string         `json:"kind,omitempty"`
	Error      string         `json:"error,omitempty"`
	Language   string         `json:"language,omitempty"`
	Auto       bool           `json:"auto,omitempty"`
	Segments   []tube.Segment `json:"segments,omitempty"`
	FetchedAt  time.Time      `json:"fetched_at"`
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// NewRecord flattens a bulk result into a Record stamped with now.
func NewRecord(res bulk.Result) Record {
	rec := Record{
		VideoID:    res.Candidate.ID,
		Title:      res.Candidate.Title,
		Channel:    res.Candidate.Channel,
		Provenance: string(res.Candidate.Provenance),
		FetchedAt:  time.Now().UTC(),
	}

	if res.Err != nil {
		rec.Status = StatusFailed
		rec.Kind = Kind(res.Err)
		rec.Error = res.Err.Error()
		return rec
	}

	rec.Status = StatusOK
	rec.Language = res.Transcript.Language
	rec.Auto = res.Transcript.Auto
	rec.Segments = res.Transcript.Segments
	return rec
}

// Kind names the failure class of err, for tallying runs without string
// matching on error messages.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ytid.ErrInvalid):
		return "invalid_id"
	case errors.Is(err, tube.ErrNoCaptions):
		return "no_captions"
	case errors.Is(err, tube.ErrNoSuitableTrack):
		return "no_suitable_track"
	case errors.Is(err, tube.ErrEmptyTrack):
		return "empty_track"
	case errors.Is(err, tube.ErrTooManyRequests):
		return "rate_limited"
	case errors.Is(err, tube.ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, tube.ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "transport"
	}
}

// Log is an append-only JSON lines file. Safe for concurrent appends; every
// record goes out in a single write so a reader never sees half a line.
type Log struct {
	mu sync.Mutex
	f  *os.File
}

func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}

	return &Log{f: f}, nil
}

func (l *Log) Append(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling record for %q: %w", rec.VideoID, err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.f.Write(line); err != nil {
		return fmt.Errorf("appending record for %q: %w", rec.VideoID, err)
	}

	return nil
}

func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SeenIDs returns every video identifier attempted in a previous run,
// regardless of outcome. A missing log means a fresh start, not an error.
// Lines that don't parse (a crash can tear the final line) are skipped.
func SeenIDs(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]struct{}{}, nil
		}

		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	// Records hold whole transcripts, lines get big.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		rec := struct {
			VideoID string `json:"video_id"`
		}{}
		if err := json.Unmarshal(line, &rec); err != nil || rec.VideoID == "" {
			continue
		}

		seen[rec.VideoID] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}

	return seen, nil
}

// Records reads the whole log back. Used by the importer to move a run's
// transcripts into the corpus.
func Records(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		rec := Record{}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("run log line %d: %w", line, err)
		}

		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}

	return records, nil
}
