package transcript

import (
	"context"
	"fmt"

	"github.com/laytan/tubescribe/internal/tube"
	"github.com/laytan/tubescribe/internal/ytid"
)

// Source is the slice of the tube client a Fetcher needs. Satisfied by
// *tube.Client.
type Source interface {
	Catalog(ctx context.Context, videoID string) ([]tube.Track, error)
	Segments(ctx context.Context, track tube.Track) ([]tube.Segment, error)
}

// Transcript is the end result for one video: the downloaded segments plus
// which track they came from.
type Transcript struct {
	VideoID  string         `json:"video_id"`
	Language string         `json:"language"`
	Auto     bool           `json:"auto"`
	Segments []tube.Segment `json:"segments"`
}

// Fetcher turns a video reference into a Transcript. Languages are the
// preferred language tags in order of preference; empty means take whatever
// track the video lists first.
type Fetcher struct {
	Client    Source
	Languages []string
}

// Fetch resolves input to a video identifier, lists its caption tracks,
// selects one by the fetcher's language preferences and downloads it.
//
// A video without captions returns tube.ErrNoCaptions; listing the catalog
// of such a video directly via Source.Catalog does not, absence only becomes
// an error once a transcript was the goal.
func (f *Fetcher) Fetch(ctx context.Context, input string) (*Transcript, error) {
	id, err := ytid.Parse(input)
	if err != nil {
		return nil, err
	}

	tracks, err := f.Client.Catalog(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing caption tracks of %q: %w", id, err)
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("video %q: %w", id, tube.ErrNoCaptions)
	}

	track, ok := tube.SelectTrack(tracks, f.Languages)
	if !ok {
		return nil, fmt.Errorf("video %q: %w", id, tube.ErrNoSuitableTrack)
	}

	segments, err := f.Client.Segments(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("downloading track %q of %q: %w", track.LanguageCode, id, err)
	}

	return &Transcript{
		VideoID:  id,
		Language: track.LanguageCode,
		Auto:     track.Auto,
		Segments: segments,
	}, nil
}
