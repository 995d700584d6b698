package feed

import "time"

type Provenance string

const (
	ProvenanceHistory    Provenance = "history"     // Takeout watch history export.
	ProvenanceWatchLater Provenance = "watch_later" // Takeout Watch later playlist export.
	ProvenanceManual     Provenance = "manual"      // Hand maintained identifier file or CLI argument.
)

// Candidate is one video somebody wants a transcript of. Only ID and
// Provenance are always set, the rest depends on how much the source knows.
type Candidate struct {
	ID         string
	Title      string
	URL        string
	Channel    string
	WatchedAt  time.Time
	Provenance Provenance
}

// Merge concatenates the given candidate lists and drops duplicate video
// identifiers, keeping the first mention. Pass sources in priority order:
// an earlier list's title and provenance win over a later list's.
func Merge(sources ...[]Candidate) []Candidate {
	total := 0
	for _, source := range sources {
		total += len(source)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]Candidate, 0, total)
	for _, source := range sources {
		for _, candidate := range source {
			if _, ok := seen[candidate.ID]; ok {
				continue
			}

			seen[candidate.ID] = struct{}{}
			merged = append(merged, candidate)
		}
	}

	return merged
}
