package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/laytan/tubescribe/internal/ytid"
)

// More is exported, this just outlines what we actually use.
type historyEntry struct {
	Title     string `json:"title"`
	TitleUrl  string `json:"titleUrl"`
	Subtitles []struct {
		Name string `json:"name"`
	} `json:"subtitles"`
	Time string `json:"time"`
}

// History reads a Takeout watch history export (watch-history.json) into
// candidates, newest first, the order Takeout writes them in.
//
// Entries whose link doesn't resolve to a video are skipped silently: the
// export mixes in ads, removed videos and posts, none of which we can do
// anything with.
func History(r io.Reader) ([]Candidate, error) {
	var entries []historyEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("unmarshalling watch history: %w", err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		id, err := ytid.Parse(entry.TitleUrl)
		if err != nil {
			continue
		}

		candidate := Candidate{
			ID:         id,
			Title:      strings.TrimPrefix(entry.Title, "Watched "),
			URL:        entry.TitleUrl,
			Provenance: ProvenanceHistory,
		}
		if len(entry.Subtitles) > 0 {
			candidate.Channel = entry.Subtitles[0].Name
		}
		if watched, err := time.Parse(time.RFC3339, entry.Time); err == nil {
			candidate.WatchedAt = watched.UTC()
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
