package search

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/laytan/tubescribe/internal/stem"
	"github.com/laytan/tubescribe/internal/store"
)

var (
	Queries        *store.Queries
	SearchRoutines = 20
	MaxResults     = 100
)

type Result struct {
	Video   store.Video
	Matches []*store.Transcript
	ids     []int64
}

// Corpus searches every video in the corpus for the query, calling Video on
// each candidate. Results are sorted most recently fetched first and capped
// at MaxResults.
func Corpus(ctx context.Context, query string) (res []Result, err error) {
	words := stem.StemLineWords(query)
	if len(words) == 0 {
		return nil, nil
	}

	// Optimistic matches: the words appear, but maybe not in order and
	// maybe spanning line boundaries the wrong way. Video does the exact
	// check and tells us which lines matched.
	videos, err := Queries.VideosWithWords(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("retrieving candidate videos: %w", err)
	}

	log.Printf("[INFO]: searching through %d optimistic video matches", len(videos))
	var group errgroup.Group
	group.SetLimit(SearchRoutines)
	var mu sync.Mutex
	for _, vid := range videos {
		vid := vid
		group.Go(func() error {
			ids, err := Video(&vid, query)
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}

			if len(ids) == 0 {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()

			res = append(res, Result{Video: vid, ids: ids})
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("iterating videos: %w", err)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[j].Video.FetchedAt.Before(res[i].Video.FetchedAt)
	})

	log.Printf("[INFO]: there were %d actual video matches, capping to %d", len(res), MaxResults)
	if len(res) > MaxResults {
		res = res[:MaxResults]
	}

	all := make([]int64, 0, len(res))
	for _, r := range res {
		all = append(all, r.ids...)
	}

	log.Printf("[INFO]: retrieving %d matched lines", len(all))
	ts, err := Queries.TranscriptsByIds(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("querying transcripts: %w", err)
	}

	for i := range res {
		matches := make([]*store.Transcript, len(res[i].ids))
		for j, id := range res[i].ids {
			matches[j] = ts[id]
		}
		res[i].ids = nil
		res[i].Matches = matches
	}

	return res, nil
}

// Video searches for the query inside the video's searchable transcript,
// returning the IDs of the matching transcript lines.
//
// Done in O(n) time where n is the length of the searchable transcript.
// The query and the transcript are both stemmed, so different "styles" of
// the same word will match.
//
// If the match spans a line boundary (part on line 1, the rest on line 2),
// the second line's ID is returned.
func Video(vid *store.Video, query string) (res []int64, err error) {
	runes := []rune(stem.StemLine(query))
	if len(runes) == 0 {
		return nil, nil
	}

	// fallback[k] is the length of the longest proper prefix of runes[:k+1]
	// that is also a suffix of it. A broken partial match falls back through
	// it instead of restarting, so a query that repeats its own opening
	// words ("hello hello world") still matches a transcript that repeats
	// them once more ("hello hello hello world").
	fallback := make([]int, len(runes))
	for k := 1; k < len(runes); k++ {
		j := fallback[k-1]
		for j > 0 && runes[k] != runes[j] {
			j = fallback[j-1]
		}
		if runes[k] == runes[j] {
			j++
		}
		fallback[k] = j
	}

	var inMeta bool
	var matching int
	var idStart int
	var idEnd int
	appendMatch := func() error {
		id, err := strconv.ParseInt(vid.SearchableTranscript[idStart:idEnd], 10, 64)
		if err != nil {
			return fmt.Errorf("could not parse id string: %w", err)
		}

		res = append(res, id)
		matching = 0
		return nil
	}

	for i, ch := range vid.SearchableTranscript {
		if matching == len(runes) {
			if err := appendMatch(); err != nil {
				return nil, err
			}
		}

		if ch == '~' {
			if inMeta {
				inMeta = false
				idEnd = i
			} else {
				inMeta = true
				idStart = i + 1
			}
			continue
		}

		if inMeta {
			continue
		}

		for matching > 0 && runes[matching] != ch {
			matching = fallback[matching-1]
		}
		if runes[matching] == ch {
			matching++
		}
	}

	// A match that runs to the very end of the transcript.
	if matching == len(runes) {
		if err := appendMatch(); err != nil {
			return nil, err
		}
	}

	return res, nil
}
