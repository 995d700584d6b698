package bulk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laytan/tubescribe/internal/feed"
	"github.com/laytan/tubescribe/internal/transcript"
)

type countingFetch struct {
	mu          sync.Mutex
	calls       []string
	inflight    int
	maxInflight int
	delay       time.Duration
	fail        map[string]error
}

func (c *countingFetch) fetch(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	c.mu.Lock()
	c.calls = append(c.calls, videoID)
	c.inflight++
	if c.inflight > c.maxInflight {
		c.maxInflight = c.inflight
	}
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	c.inflight--
	err := c.fail[videoID]
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return &transcript.Transcript{VideoID: videoID, Language: "en"}, nil
}

func (c *countingFetch) called() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.calls...)
}

func candidates(ids ...string) []feed.Candidate {
	out := make([]feed.Candidate, len(ids))
	for i, id := range ids {
		out[i] = feed.Candidate{ID: id, Provenance: feed.ProvenanceManual}
	}

	return out
}

func TestProcessAllOneResultPerCandidate(t *testing.T) {
	fetch := &countingFetch{fail: map[string]error{"c": errors.New("no captions")}}
	cfg := Config{Fetch: fetch.fetch, Concurrency: 3}

	results := ProcessAll(context.Background(), cfg, candidates("a", "b", "c", "d", "e"))
	require.Len(t, results, 5)

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, id, results[i].Candidate.ID, "results must keep input order")
	}

	for _, res := range results {
		if res.Candidate.ID == "c" {
			assert.False(t, res.OK())
			assert.Nil(t, res.Transcript)
			continue
		}

		require.True(t, res.OK())
		assert.Equal(t, res.Candidate.ID, res.Transcript.VideoID)
	}
}

func TestProcessAllSkipsAreNeverFetched(t *testing.T) {
	fetch := &countingFetch{}
	cfg := Config{
		Fetch:   fetch.fetch,
		SkipIDs: map[string]struct{}{"b": {}, "d": {}},
	}

	results := ProcessAll(context.Background(), cfg, candidates("a", "b", "c", "d"))
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Candidate.ID)
	assert.Equal(t, "c", results[1].Candidate.ID)
	assert.ElementsMatch(t, []string{"a", "c"}, fetch.called())
}

func TestProcessAllAllSkipped(t *testing.T) {
	fetch := &countingFetch{}
	cfg := Config{Fetch: fetch.fetch, SkipIDs: map[string]struct{}{"a": {}}}

	results := ProcessAll(context.Background(), cfg, candidates("a"))
	assert.Empty(t, results)
	assert.Empty(t, fetch.called())
}

func TestPacing(t *testing.T) {
	fetch := &countingFetch{delay: 10 * time.Millisecond}
	cfg := Config{
		Fetch:       fetch.fetch,
		Concurrency: 2,
		PauseAfter:  2,
		Pause:       100 * time.Millisecond,
	}

	start := time.Now()
	results := ProcessAll(context.Background(), cfg, candidates("a", "b", "c", "d", "e"))
	elapsed := time.Since(start)

	require.Len(t, results, 5)

	// Batches of (a b) (c d) (e) mean two pauses.
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.LessOrEqual(t, fetch.maxInflight, 2)
}

func TestConcurrencyCap(t *testing.T) {
	fetch := &countingFetch{delay: 20 * time.Millisecond}
	cfg := Config{Fetch: fetch.fetch, Concurrency: 3}

	results := ProcessAll(context.Background(), cfg, candidates("a", "b", "c", "d", "e", "f", "g", "h"))
	require.Len(t, results, 8)
	assert.LessOrEqual(t, fetch.maxInflight, 3)
}

func TestOnProgress(t *testing.T) {
	fetch := &countingFetch{}

	var dones []int
	var totals []int
	cfg := Config{
		Fetch:       fetch.fetch,
		Concurrency: 4,
		OnProgress: func(done, total int, res Result) {
			// Calls are serialized, no locking needed here.
			dones = append(dones, done)
			totals = append(totals, total)
			assert.NotEmpty(t, res.Candidate.ID)
		},
	}

	ProcessAll(context.Background(), cfg, candidates("a", "b", "c", "d"))

	assert.Equal(t, []int{1, 2, 3, 4}, dones)
	assert.Equal(t, []int{4, 4, 4, 4}, totals)
}

func TestProcessAllCancelDropsUndispatched(t *testing.T) {
	fetch := &countingFetch{delay: 20 * time.Millisecond}
	cfg := Config{Fetch: fetch.fetch, Concurrency: 1}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	results := ProcessAll(ctx, cfg, candidates("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"))
	assert.NotEmpty(t, results)
	assert.Less(t, len(results), 10)

	for _, res := range results {
		assert.NotEmpty(t, res.Candidate.ID)
	}
}

func TestStreamYieldsEverything(t *testing.T) {
	fetch := &countingFetch{delay: 5 * time.Millisecond, fail: map[string]error{"b": errors.New("boom")}}
	cfg := Config{Fetch: fetch.fetch, Concurrency: 2}

	var got []string
	failures := 0
	for res := range Stream(context.Background(), cfg, candidates("a", "b", "c", "d", "e")) {
		got = append(got, res.Candidate.ID)
		if !res.OK() {
			failures++
		}
	}

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, got)
	assert.Equal(t, 1, failures)
}

func TestStreamClosesOnCancel(t *testing.T) {
	fetch := &countingFetch{delay: 20 * time.Millisecond}
	cfg := Config{Fetch: fetch.fetch, Concurrency: 1, PauseAfter: 2, Pause: 20 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := 0
	for range Stream(ctx, cfg, candidates("a", "b", "c", "d", "e", "f", "g", "h")) {
		got++
		if got == 2 {
			cancel()
		}
	}

	assert.GreaterOrEqual(t, got, 2)
	assert.Less(t, got, 8)
}
