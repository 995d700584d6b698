package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laytan/tubescribe/internal/bulk"
	"github.com/laytan/tubescribe/internal/feed"
	"github.com/laytan/tubescribe/internal/transcript"
	"github.com/laytan/tubescribe/internal/tube"
)

func TestAppendThenReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")

	log, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, log.Append(Record{
		VideoID:  "aaaaaaaaaaa",
		Status:   StatusOK,
		Language: "en",
		Segments: []tube.Segment{{Text: "Hello", Start: 0, Duration: 1.5}},
	}))
	require.NoError(t, log.Append(Record{
		VideoID: "bbbbbbbbbbb",
		Status:  StatusFailed,
		Kind:    "no_captions",
		Error:   "video \"bbbbbbbbbbb\": no caption tracks",
	}))
	require.NoError(t, log.Close())

	records, err := Records(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "aaaaaaaaaaa", records[0].VideoID)
	assert.Equal(t, StatusOK, records[0].Status)
	assert.Equal(t, []tube.Segment{{Text: "Hello", Start: 0, Duration: 1.5}}, records[0].Segments)
	assert.Equal(t, "no_captions", records[1].Kind)

	seen, err := SeenIDs(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"aaaaaaaaaaa": {},
		"bbbbbbbbbbb": {},
	}, seen)
}

func TestSeenIDsMissingFile(t *testing.T) {
	seen, err := SeenIDs(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestSeenIDsSkipsTornLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	content := `{"video_id":"aaaaaaaaaaa","status":"ok"}
{"video_id":"bbbbb`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	seen, err := SeenIDs(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"aaaaaaaaaaa": {}}, seen)
}

func TestConcurrentAppendsDontTearLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")

	log, err := Open(path)
	require.NoError(t, err)

	const writers = 20
	wg := sync.WaitGroup{}
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		i := i
		go func() {
			defer wg.Done()
			err := log.Append(Record{
				VideoID:  fmt.Sprintf("video%06d", i),
				Status:   StatusOK,
				Segments: []tube.Segment{{Text: "some text that makes the line longer"}},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.NoError(t, log.Close())

	records, err := Records(path)
	require.NoError(t, err)
	assert.Len(t, records, writers)
}

func TestNewRecord(t *testing.T) {
	ok := NewRecord(bulk.Result{
		Candidate: feed.Candidate{
			ID:         "aaaaaaaaaaa",
			Title:      "Some video",
			Provenance: feed.ProvenanceHistory,
		},
		Transcript: &transcript.Transcript{
			VideoID:  "aaaaaaaaaaa",
			Language: "en",
			Auto:     true,
			Segments: []tube.Segment{{Text: "Hello", Start: 0, Duration: 1}},
		},
	})

	assert.Equal(t, StatusOK, ok.Status)
	assert.Equal(t, "en", ok.Language)
	assert.True(t, ok.Auto)
	assert.Empty(t, ok.Kind)
	assert.False(t, ok.FetchedAt.IsZero())

	failed := NewRecord(bulk.Result{
		Candidate: feed.Candidate{ID: "bbbbbbbbbbb", Provenance: feed.ProvenanceManual},
		Err:       fmt.Errorf("video %q: %w", "bbbbbbbbbbb", tube.ErrNoCaptions),
	})

	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "no_captions", failed.Kind)
	assert.NotEmpty(t, failed.Error)
	assert.Nil(t, failed.Segments)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: tube.ErrTooManyRequests, want: "rate_limited"},
		{err: tube.ErrAccessDenied, want: "access_denied"},
		{err: tube.ErrTimeout, want: "timeout"},
		{err: tube.ErrEmptyTrack, want: "empty_track"},
		{err: fmt.Errorf("wrapped: %w", tube.ErrNoCaptions), want: "no_captions"},
		{err: fmt.Errorf("connection reset"), want: "transport"},
		{err: nil, want: ""},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, Kind(test.err), "for error %v", test.err)
	}
}
