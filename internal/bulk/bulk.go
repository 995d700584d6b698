package bulk

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/laytan/tubescribe/internal/feed"
	"github.com/laytan/tubescribe/internal/transcript"
)

// DefaultConcurrency is deliberately low, the upstream starts throttling
// quickly and a ban helps nobody.
const DefaultConcurrency = 2

// FetchFunc is one transcript attempt for one video. The scheduler never
// retries it; wrap retrying inside when wanted.
type FetchFunc func(ctx context.Context, videoID string) (*transcript.Transcript, error)

// Result is the outcome of one attempt. Exactly one of Transcript and Err
// is set.
type Result struct {
	Candidate  feed.Candidate
	Transcript *transcript.Transcript
	Err        error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Config drives one bulk run. Fetch is required, everything else has a
// usable zero value.
type Config struct {
	Fetch FetchFunc

	// Concurrency caps in-flight attempts, DefaultConcurrency when < 1.
	Concurrency int

	// PauseAfter splits the run into batches of this many attempts with
	// Pause of idle time between them. Zero or negative disables pacing and
	// runs everything as one batch.
	PauseAfter int
	Pause      time.Duration

	// SkipIDs are dropped before scheduling, these videos produce no
	// result at all. This is how a run resumes over a previous run's log.
	SkipIDs map[string]struct{}

	// OnProgress, when set, is called once per completed attempt with the
	// number of attempts done so far and the total after skip filtering.
	// Calls are serialized; keep it quick, the attempt that completed waits
	// on it.
	OnProgress func(done, total int, res Result)
}

// ProcessAll runs an attempt for every candidate not in SkipIDs and returns
// one Result each, in input order. A failed attempt is a Result carrying its
// error, never an abort: one broken video must not take down a run of
// thousands.
//
// Cancelling ctx stops dispatching new attempts; attempts already in flight
// finish and keep their spot in the returned results, the rest are dropped.
func ProcessAll(ctx context.Context, cfg Config, candidates []feed.Candidate) []Result {
	kept := discardSkipped(candidates, cfg.SkipIDs)

	results := make([]Result, len(kept))
	filled := make([]bool, len(kept))
	dispatch(ctx, cfg, kept, func(i int, res Result) {
		results[i] = res
		filled[i] = true
	})

	out := results[:0]
	for i := range results {
		if filled[i] {
			out = append(out, results[i])
		}
	}

	return out
}

// Stream is ProcessAll yielding each Result as its attempt completes, in
// completion order, not input order. The channel closes once every attempt
// has completed or the run is cancelled; consumers that stop reading early
// must cancel ctx or the workers block forever.
func Stream(ctx context.Context, cfg Config, candidates []feed.Candidate) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		kept := discardSkipped(candidates, cfg.SkipIDs)
		dispatch(ctx, cfg, kept, func(_ int, res Result) {
			select {
			case out <- res:
			case <-ctx.Done():
			}
		})
	}()

	return out
}

func discardSkipped(candidates []feed.Candidate, skip map[string]struct{}) []feed.Candidate {
	if len(skip) == 0 {
		return candidates
	}

	kept := make([]feed.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := skip[candidate.ID]; ok {
			continue
		}

		kept = append(kept, candidate)
	}

	return kept
}

// dispatch works through the candidates batch by batch, fanning each batch
// out over at most cfg.Concurrency goroutines. emit is called once per
// completed attempt with the candidate's index; calls are serialized and so
// is OnProgress, per the single writer discipline on the completion counter
// and the output sink.
func dispatch(ctx context.Context, cfg Config, candidates []feed.Candidate, emit func(int, Result)) {
	total := len(candidates)
	if total == 0 {
		return
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	batchSize := cfg.PauseAfter
	if batchSize < 1 {
		batchSize = total
	}

	done := 0
	mu := sync.Mutex{}
	complete := func(i int, res Result) {
		mu.Lock()
		defer mu.Unlock()

		done++
		emit(i, res)
		if cfg.OnProgress != nil {
			cfg.OnProgress(done, total, res)
		}
	}

	for start := 0; start < total; start += batchSize {
		if ctx.Err() != nil {
			return
		}

		end := start + batchSize
		if end > total {
			end = total
		}

		group := errgroup.Group{}
		group.SetLimit(concurrency)

		for i := start; i < end; i++ {
			i := i
			candidate := candidates[i]
			group.Go(func() error {
				// Attempts not yet started when the run is cancelled are
				// abandoned without a result.
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				tr, err := cfg.Fetch(ctx, candidate.ID)
				complete(i, Result{Candidate: candidate, Transcript: tr, Err: err})
				return nil
			})
		}

		group.Wait()

		if end == total || cfg.Pause <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.Pause):
		}
	}
}
