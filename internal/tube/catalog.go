package tube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// More is accepted by the endpoint, this is the minimum that makes it answer.
type reqPlayer struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

// More is returned, this just outlines what we actually use.
type resPlayer struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []resTrack
			// There is more, ex:
			// AudioTracks
			// TranslationLanguages
		}
	}
}

type resTrack struct {
	BaseUrl string
	Name    struct {
		SimpleText string
	}
	LanguageCode string
	Kind         string // "asr" for speech recognition tracks, empty otherwise.
}

// Catalog lists the caption tracks of the given video in the order the
// endpoint reports them. A video without captions is not an error here, it
// yields an empty catalog; only callers know whether that is a problem.
func (c *Client) Catalog(ctx context.Context, videoID string) ([]Track, error) {
	reqBody := reqPlayer{VideoID: videoID}
	reqBody.Context.Client.ClientName = clientName
	reqBody.Context.Client.ClientVersion = clientVersion

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshalling player request for %q: %w", videoID, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.playerURL+"?prettyPrint=false",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("building player request for %q: %w", videoID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("player request for %q: %w", videoID, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading player response for %q: %w", videoID, err)
	}

	result := resPlayer{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshalling player response for %q: %w", videoID, err)
	}

	raw := result.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, Track{
			LanguageCode: t.LanguageCode,
			Name:         t.Name.SimpleText,
			Auto:         t.Kind == "asr",
			BaseURL:      t.BaseUrl,
		})
	}

	return tracks, nil
}
