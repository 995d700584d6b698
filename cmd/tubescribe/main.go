package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/laytan/tubescribe/internal/bulk"
	"github.com/laytan/tubescribe/internal/config"
	"github.com/laytan/tubescribe/internal/feed"
	"github.com/laytan/tubescribe/internal/index"
	"github.com/laytan/tubescribe/internal/render"
	"github.com/laytan/tubescribe/internal/runlog"
	"github.com/laytan/tubescribe/internal/search"
	"github.com/laytan/tubescribe/internal/store"
	"github.com/laytan/tubescribe/internal/transcript"
	"github.com/laytan/tubescribe/internal/tube"
	"github.com/laytan/tubescribe/internal/webapi"
	"github.com/laytan/tubescribe/internal/ytid"
)

var (
	queries *store.Queries
	db      *sql.DB
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR]: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "fetch":
		err = runFetch(ctx, cfg, os.Args[2:])
	case "tracks":
		err = runTracks(ctx, cfg, os.Args[2:])
	case "bulk":
		err = runBulk(ctx, cfg, os.Args[2:])
	case "import":
		err = runImport(ctx, cfg, os.Args[2:])
	case "search":
		err = runSearch(ctx, cfg, os.Args[2:])
	case "serve":
		err = runServe(ctx, cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("[ERROR]: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: tubescribe <command> [flags] [args]

commands:
  fetch    fetch one video's transcript and print it
  tracks   list the caption tracks of one video
  bulk     fetch transcripts for many videos into a run log
  import   move a run log's transcripts into the corpus database
  search   search all transcripts in the corpus
  serve    serve the corpus as a JSON API

run 'tubescribe <command> -h' for the command's flags`)
}

func runFetch(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("fetch", flag.ExitOnError)
	langs := flags.String("langs", strings.Join(cfg.Languages, ","), "comma separated preferred languages")
	timeout := flags.Duration("timeout", cfg.Timeout, "per request timeout")
	proxy := flags.String("proxy", cfg.Proxy, "forward proxy url")
	format := flags.String("format", "text", "output format: text, srt, vtt or json")
	out := flags.String("o", "", "output file, stdout when empty")
	retries := flags.Uint64("retries", 0, "attempts after the first for transient failures")
	flags.Parse(args)

	if flags.NArg() != 1 {
		return errors.New("fetch needs exactly one video id or url")
	}

	renderer, err := render.For(*format)
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cfg, *langs, *timeout, *proxy)
	if err != nil {
		return err
	}

	var t *transcript.Transcript
	if *retries > 0 {
		t, err = fetcher.FetchWithRetry(ctx, flags.Arg(0), *retries)
	} else {
		t, err = fetcher.Fetch(ctx, flags.Arg(0))
	}
	if err != nil {
		return err
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return renderer(w, t)
}

func runTracks(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("tracks", flag.ExitOnError)
	timeout := flags.Duration("timeout", cfg.Timeout, "per request timeout")
	proxy := flags.String("proxy", cfg.Proxy, "forward proxy url")
	flags.Parse(args)

	if flags.NArg() != 1 {
		return errors.New("tracks needs exactly one video id or url")
	}

	id, err := ytid.Parse(flags.Arg(0))
	if err != nil {
		return err
	}

	client, err := newClient(cfg, *timeout, *proxy)
	if err != nil {
		return err
	}

	tracks, err := client.Catalog(ctx, id)
	if err != nil {
		return err
	}

	// Zero tracks is an answer here, not an error, unlike a transcript
	// fetch where there is nothing to fetch.
	if len(tracks) == 0 {
		log.Printf("[INFO]: %q has no caption tracks", id)
		return nil
	}

	for _, track := range tracks {
		kind := "manual"
		if track.Auto {
			kind = "auto"
		}

		name := track.Name
		if name == "" {
			name = "-"
		}

		fmt.Printf("%-10s %-6s %s\n", track.LanguageCode, kind, name)
	}

	return nil
}

func runBulk(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("bulk", flag.ExitOnError)
	history := flags.String("history", "", "Takeout watch-history.json to load candidates from")
	watchLater := flags.String("watchlater", "", "Takeout Watch later playlist csv to load candidates from")
	idFile := flags.String("ids", "", "file with one video id or url per line")
	out := flags.String("out", "run.jsonl", "run log to append every attempt to")
	resume := flags.Bool("resume", true, "skip videos already attempted in the run log")
	concurrency := flags.Int("concurrency", bulk.DefaultConcurrency, "max in-flight attempts")
	pauseAfter := flags.Int("pause-after", 50, "attempts per pacing batch, 0 disables pacing")
	pause := flags.Duration("pause", 10*time.Second, "idle time between pacing batches")
	deadline := flags.Duration("deadline", 0, "overall run deadline, 0 means none")
	langs := flags.String("langs", strings.Join(cfg.Languages, ","), "comma separated preferred languages")
	timeout := flags.Duration("timeout", cfg.Timeout, "per request timeout")
	proxy := flags.String("proxy", cfg.Proxy, "forward proxy url")
	retries := flags.Uint64("retries", 0, "attempts after the first for transient failures")
	flags.Parse(args)

	candidates, err := loadCandidates(*history, *watchLater, *idFile, flags.Args())
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return errors.New("no candidates, pass -history, -watchlater, -ids or video arguments")
	}

	var skip map[string]struct{}
	if *resume {
		skip, err = runlog.SeenIDs(*out)
		if err != nil {
			return err
		}
	}

	skipped := 0
	for _, candidate := range candidates {
		if _, ok := skip[candidate.ID]; ok {
			skipped++
		}
	}
	log.Printf("[INFO]: %d candidates, %d already attempted", len(candidates), skipped)

	fetcher, err := newFetcher(cfg, *langs, *timeout, *proxy)
	if err != nil {
		return err
	}

	fetch := fetcher.Fetch
	if *retries > 0 {
		r := *retries
		fetch = func(ctx context.Context, videoID string) (*transcript.Transcript, error) {
			return fetcher.FetchWithRetry(ctx, videoID, r)
		}
	}

	lg, err := runlog.Open(*out)
	if err != nil {
		return err
	}
	defer lg.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if *deadline > 0 {
		ctx, cancel = context.WithTimeout(ctx, *deadline)
		defer cancel()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	defer signal.Stop(signals)
	go func() {
		<-signals
		log.Println("[WARN]: interrupted, finishing in-flight attempts")
		cancel()
	}()

	bcfg := bulk.Config{
		Fetch:       fetch,
		Concurrency: *concurrency,
		PauseAfter:  *pauseAfter,
		Pause:       *pause,
		SkipIDs:     skip,
		OnProgress: func(done, total int, res bulk.Result) {
			log.Printf("[INFO]: %d/%d %q", done, total, res.Candidate.ID)
		},
	}

	var ok, failed int
	for res := range bulk.Stream(ctx, bcfg, candidates) {
		if err := lg.Append(runlog.NewRecord(res)); err != nil {
			return err
		}

		if res.OK() {
			ok++
		} else {
			failed++
			log.Printf("[WARN]: %q: %v", res.Candidate.ID, res.Err)
		}
	}

	log.Printf("[INFO]: finished, %d ok, %d failed, %d skipped, log at %s", ok, failed, skipped, *out)
	return nil
}

// loadCandidates merges every given source, richest metadata first:
// watch history, then the watch later playlist, then the id file, then
// plain arguments. The first source to mention a video wins.
func loadCandidates(history, watchLater, idFile string, args []string) ([]feed.Candidate, error) {
	var sources [][]feed.Candidate

	if history != "" {
		candidates, err := loadFeed(history, feed.History)
		if err != nil {
			return nil, err
		}
		sources = append(sources, candidates)
	}

	if watchLater != "" {
		candidates, err := loadFeed(watchLater, feed.WatchLater)
		if err != nil {
			return nil, err
		}
		sources = append(sources, candidates)
	}

	if idFile != "" {
		candidates, err := loadFeed(idFile, feed.IDFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, candidates)
	}

	var manual []feed.Candidate
	for _, arg := range args {
		id, err := ytid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}

		manual = append(manual, feed.Candidate{ID: id, Provenance: feed.ProvenanceManual})
	}
	if len(manual) > 0 {
		sources = append(sources, manual)
	}

	return feed.Merge(sources...), nil
}

func loadFeed(
	path string,
	load func(r io.Reader) ([]feed.Candidate, error),
) ([]feed.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	candidates, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	log.Printf("[INFO]: loaded %d candidates from %s", len(candidates), path)
	return candidates, nil
}

func runImport(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("import", flag.ExitOnError)
	logPath := flags.String("log", "run.jsonl", "run log to import")
	flags.Parse(args)

	if err := openStore(cfg); err != nil {
		return err
	}

	added, err := index.IndexLog(ctx, *logPath)
	if err != nil {
		return err
	}

	total, err := queries.CountVideos(ctx)
	if err != nil {
		return err
	}

	log.Printf("[INFO]: imported %d videos, corpus now has %d", added, total)
	return nil
}

func runSearch(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	flags.Parse(args)

	query := strings.Join(flags.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("search needs a query")
	}

	if err := openStore(cfg); err != nil {
		return err
	}

	results, err := search.Corpus(ctx, query)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		log.Println("[INFO]: no matches")
		return nil
	}

	for _, res := range results {
		title := res.Video.Title
		if title == "" {
			title = "(untitled)"
		}

		fmt.Printf("%s  %s\n", res.Video.ID, title)
		for _, match := range res.Matches {
			if match == nil {
				continue
			}

			fmt.Printf("  [%s] %s\n", timestamp(match.StartDuration()), match.Text)
		}
	}

	return nil
}

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", cfg.Addr, "address to listen on")
	flags.Parse(args)

	if err := openStore(cfg); err != nil {
		return err
	}

	log.Printf("[INFO]: serving corpus on %s", *addr)
	return webapi.Start(ctx, *addr)
}

func newClient(cfg *config.Config, timeout time.Duration, proxy string) (*tube.Client, error) {
	client, err := tube.New(tube.Options{
		Timeout:           timeout,
		Proxy:             proxy,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	return client, nil
}

func newFetcher(
	cfg *config.Config,
	langs string,
	timeout time.Duration,
	proxy string,
) (*transcript.Fetcher, error) {
	client, err := newClient(cfg, timeout, proxy)
	if err != nil {
		return nil, err
	}

	var languages []string
	for _, lang := range strings.Split(langs, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			languages = append(languages, lang)
		}
	}

	return &transcript.Fetcher{Client: client, Languages: languages}, nil
}

func openStore(cfg *config.Config) error {
	if cfg.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN environment variable must be set")
	}

	d, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	db = d
	queries = store.New(db)

	index.Queries = queries
	index.Db = db
	search.Queries = queries
	webapi.Queries = queries

	return nil
}

func timestamp(d time.Duration) string {
	return fmt.Sprintf(
		"%02d:%02d:%02d",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60,
	)
}
