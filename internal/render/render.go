package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/laytan/tubescribe/internal/transcript"
)

// A Func writes one transcript to w in some output format.
type Func func(w io.Writer, t *transcript.Transcript) error

// For resolves a format name from the command line to its renderer.
func For(format string) (Func, error) {
	switch format {
	case "text":
		return Text, nil
	case "srt":
		return SRT, nil
	case "vtt":
		return VTT, nil
	case "json":
		return JSON, nil
	default:
		return nil, fmt.Errorf("unknown format %q, have text, srt, vtt and json", format)
	}
}

// Text writes just the spoken text, one segment per line. Segments that are
// only whitespace are skipped, they carry timing, not prose.
func Text(w io.Writer, t *transcript.Transcript) error {
	bw := bufio.NewWriter(w)
	for _, seg := range t.Segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}

		fmt.Fprintln(bw, seg.Text)
	}

	return bw.Flush()
}

// SRT writes SubRip cues: a counter, a comma timestamp range, the text.
func SRT(w io.Writer, t *transcript.Transcript) error {
	bw := bufio.NewWriter(w)
	for i, seg := range t.Segments {
		fmt.Fprintf(bw, "%d\n", i+1)
		fmt.Fprintf(bw, "%s --> %s\n", stamp(seg.Start, ','), stamp(seg.Start+seg.Duration, ','))
		fmt.Fprintf(bw, "%s\n\n", seg.Text)
	}

	return bw.Flush()
}

// VTT writes WebVTT, which is SRT with a header, dot separated milliseconds
// and no cue counters.
func VTT(w io.Writer, t *transcript.Transcript) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "WEBVTT\n\n")
	for _, seg := range t.Segments {
		fmt.Fprintf(bw, "%s --> %s\n", stamp(seg.Start, '.'), stamp(seg.Start+seg.Duration, '.'))
		fmt.Fprintf(bw, "%s\n\n", seg.Text)
	}

	return bw.Flush()
}

// JSON writes the transcript as indented JSON.
func JSON(w io.Writer, t *transcript.Transcript) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

func stamp(seconds float64, sep byte) string {
	d := time.Duration(seconds * float64(time.Second))
	return fmt.Sprintf(
		"%02d:%02d:%02d%c%03d",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60,
		sep,
		d.Milliseconds()%1000,
	)
}
