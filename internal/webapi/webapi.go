package webapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/laytan/tubescribe/internal/render"
	"github.com/laytan/tubescribe/internal/search"
	"github.com/laytan/tubescribe/internal/store"
	"github.com/laytan/tubescribe/internal/transcript"
	"github.com/laytan/tubescribe/internal/tube"
)

const RecentLimit = 50

var Queries *store.Queries

type videoSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	Channel        string    `json:"channel,omitempty"`
	Language       string    `json:"language"`
	TranscriptType string    `json:"transcript_type"`
	Provenance     string    `json:"provenance"`
	FetchedAt      time.Time `json:"fetched_at"`
}

func summarize(v store.Video) videoSummary {
	return videoSummary{
		ID:             v.ID,
		Title:          v.Title,
		Channel:        v.Channel,
		Language:       v.Language,
		TranscriptType: string(v.TranscriptType),
		Provenance:     v.Provenance,
		FetchedAt:      v.FetchedAt,
	}
}

type line struct {
	ID       int64   `json:"id"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

type videoDetail struct {
	videoSummary
	Lines []line `json:"lines"`
}

type searchHit struct {
	Video   videoSummary `json:"video"`
	Matches []line       `json:"matches"`
}

// Start serves the corpus as JSON until the listener fails. Routes:
//
//	GET /api/videos            most recently fetched videos
//	GET /api/videos/:id        one video with all its transcript lines
//	GET /api/videos/:id/srt    the same transcript as a SubRip file
//	GET /api/search?q=         lines across the whole corpus matching q
func Start(ctx context.Context, addr string) error {
	app := fiber.New(fiber.Config{AppName: "tubescribe"})

	app.Get("/api/videos", func(c *fiber.Ctx) error {
		videos, err := Queries.RecentVideos(ctx, RecentLimit)
		if err != nil {
			log.Printf("[ERROR]: listing videos: %v", err)
			return fiber.NewError(http.StatusInternalServerError, "listing videos failed")
		}

		summaries := make([]videoSummary, len(videos))
		for i, vid := range videos {
			summaries[i] = summarize(vid)
		}

		return c.JSON(summaries)
	})

	app.Get("/api/videos/:id", func(c *fiber.Ctx) error {
		vid, lines, err := videoWithLines(ctx, c.Params("id"))
		if err != nil {
			return err
		}

		return c.JSON(videoDetail{videoSummary: summarize(vid), Lines: lines})
	})

	app.Get("/api/videos/:id/srt", func(c *fiber.Ctx) error {
		vid, lines, err := videoWithLines(ctx, c.Params("id"))
		if err != nil {
			return err
		}

		t := transcript.Transcript{
			VideoID:  vid.ID,
			Language: vid.Language,
			Auto:     vid.TranscriptType == store.TypeAuto,
			Segments: make([]tube.Segment, len(lines)),
		}
		for i, l := range lines {
			t.Segments[i] = tube.Segment{Text: l.Text, Start: l.Start, Duration: l.Duration}
		}

		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", vid.ID+".srt"))
		return render.SRT(c.Response().BodyWriter(), &t)
	})

	app.Get("/api/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if len(query) < 3 {
			return fiber.NewError(
				http.StatusUnprocessableEntity,
				"Please type at least 3 characters",
			)
		}

		log.Printf("[INFO]: searching for %q", query)
		results, err := search.Corpus(ctx, query)
		if err != nil {
			log.Printf("[ERROR]: %v", err)
			return fiber.NewError(http.StatusInternalServerError, "search failed")
		}

		hits := make([]searchHit, len(results))
		for i, res := range results {
			hit := searchHit{Video: summarize(res.Video), Matches: make([]line, 0, len(res.Matches))}
			for _, match := range res.Matches {
				if match == nil {
					continue
				}

				hit.Matches = append(hit.Matches, line{
					ID:       match.ID,
					Start:    match.Start,
					Duration: match.Duration,
					Text:     match.Text,
				})
			}
			hits[i] = hit
		}

		return c.JSON(hits)
	})

	return app.Listen(addr)
}

func videoWithLines(ctx context.Context, id string) (store.Video, []line, error) {
	vid, err := Queries.Video(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Video{}, nil, fiber.NewError(http.StatusNotFound, "no such video")
		}

		log.Printf("[ERROR]: retrieving video %q: %v", id, err)
		return store.Video{}, nil, fiber.NewError(http.StatusInternalServerError, "retrieving video failed")
	}

	transcripts, err := Queries.TranscriptsOfVideo(ctx, id)
	if err != nil {
		log.Printf("[ERROR]: retrieving transcript of %q: %v", id, err)
		return store.Video{}, nil, fiber.NewError(http.StatusInternalServerError, "retrieving transcript failed")
	}

	lines := make([]line, len(transcripts))
	for i, t := range transcripts {
		lines[i] = line{ID: t.ID, Start: t.Start, Duration: t.Duration, Text: t.Text}
	}

	return vid, lines, nil
}
