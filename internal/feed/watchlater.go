package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/laytan/tubescribe/internal/ytid"
)

// WatchLater reads a Takeout playlist export (ex: Watch later.csv) into
// candidates. The file is a CSV with a header row naming at least a
// "Video ID" column; the creation timestamp column is used when present.
// Rows without a valid identifier are skipped silently, Takeout pads the
// file with blank lines.
func WatchLater(r io.Reader) ([]Candidate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading playlist csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("playlist csv has no header row")
	}

	idCol, timeCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case "Video ID":
			idCol = i
		case "Playlist Video Creation Timestamp", "Time Added":
			timeCol = i
		}
	}
	if idCol == -1 {
		return nil, fmt.Errorf("playlist csv has no %q column", "Video ID")
	}

	candidates := make([]Candidate, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if idCol >= len(row) {
			continue
		}

		id, err := ytid.Parse(row[idCol])
		if err != nil {
			continue
		}

		candidate := Candidate{ID: id, Provenance: ProvenanceWatchLater}
		if timeCol != -1 && timeCol < len(row) {
			if added, err := time.Parse(time.RFC3339, strings.TrimSpace(row[timeCol])); err == nil {
				candidate.WatchedAt = added.UTC()
			}
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
