package ytid

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// A canonical identifier is exactly 11 characters from this set.
var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var ErrInvalid = errors.New("invalid video identifier")

// Parse resolves the given input to a canonical 11-character video
// identifier. The input may be a bare identifier, a watch page URL
// (youtube.com/watch?v=...), a short link (youtu.be/...) or an embed URL
// (youtube.com/embed/...). Anything else returns ErrInvalid.
//
// Parse does no I/O, and parsing an already canonical identifier returns it
// unchanged.
func Parse(input string) (string, error) {
	input = strings.TrimSpace(input)
	if idRe.MatchString(input) {
		return input, nil
	}

	u, err := url.Parse(input)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("resolving %q: %w", input, ErrInvalid)
	}

	var id string
	switch strings.ToLower(u.Hostname()) {
	case "youtube.com", "www.youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
		} else if strings.HasPrefix(u.Path, "/embed/") {
			id = firstSegment(strings.TrimPrefix(u.Path, "/embed/"))
		}
	case "youtu.be":
		id = firstSegment(strings.TrimPrefix(u.Path, "/"))
	}

	if !idRe.MatchString(id) {
		return "", fmt.Errorf("resolving %q: %w", input, ErrInvalid)
	}

	return id, nil
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
