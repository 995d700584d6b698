package feed

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/laytan/tubescribe/internal/ytid"
)

// IDFile reads a hand maintained list of videos, one identifier or URL per
// line. Blank lines and everything after a '#' are ignored. Unlike the
// Takeout loaders a line that doesn't resolve is an error, someone typed it
// on purpose.
func IDFile(r io.Reader) ([]Candidate, error) {
	var candidates []Candidate

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		id, err := ytid.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		candidate := Candidate{ID: id, Provenance: ProvenanceManual}
		if text != id {
			candidate.URL = text
		}

		candidates = append(candidates, candidate)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading id file: %w", err)
	}

	return candidates, nil
}
