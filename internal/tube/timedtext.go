package tube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Segment is one timed piece of transcript text. Times are in seconds.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// The json3 timed text document. Events without segs are timing or styling
// markers and carry no text.
type resTimedText struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			Utf8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Segments downloads the given track and normalizes it into timed segments.
// Events with no text fragments at all are dropped; an event whose fragments
// concatenate to an empty string is kept, silence can be meaningful. A track
// that yields zero segments returns ErrEmptyTrack.
func (c *Client) Segments(ctx context.Context, track Track) ([]Segment, error) {
	if track.BaseURL == "" {
		return nil, fmt.Errorf("track %q has no base url", track.LanguageCode)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		track.BaseURL+"&fmt=json3",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("building timed text request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("timed text request for track %q: %w", track.LanguageCode, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading timed text for track %q: %w", track.LanguageCode, err)
	}

	result := resTimedText{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshalling timed text for track %q: %w", track.LanguageCode, err)
	}

	segments := make([]Segment, 0, len(result.Events))
	for _, ev := range result.Events {
		if len(ev.Segs) == 0 {
			continue
		}

		text := strings.Builder{}
		for _, seg := range ev.Segs {
			text.WriteString(seg.Utf8)
		}

		segments = append(segments, Segment{
			Text:     text.String(),
			Start:    float64(ev.TStartMs) / 1000,
			Duration: float64(ev.DDurationMs) / 1000,
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("track %q: %w", track.LanguageCode, ErrEmptyTrack)
	}

	return segments, nil
}
