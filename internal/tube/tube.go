package tube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// EndpointPlayer is the player endpoint of YouTube's internal API, the
	// one the site's own web client talks to. Undocumented, so no stability
	// guarantees whatsoever.
	EndpointPlayer = "https://www.youtube.com/youtubei/v1/player"

	// The endpoint rejects requests that don't look like they come from a
	// browser, so we identify as the web client.
	clientName    = "WEB"
	clientVersion = "2.20230602.01.00"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/113.0.0.0 Safari/537.36"

	DefaultTimeout = 30 * time.Second
)

var (
	ErrNotOk           = errors.New("unexpected non 200 status code")
	ErrTooManyRequests = errors.New("too many requests")
	ErrAccessDenied    = errors.New("access denied")
	ErrTimeout         = errors.New("request timed out")
	ErrNoCaptions      = errors.New("no caption tracks")
	ErrNoSuitableTrack = errors.New("no suitable caption track")
	ErrEmptyTrack      = errors.New("caption track has no content")
)

// Track is one caption track of a video, flattened out of the upstream
// renderer shapes right at the boundary. A Track is produced fresh by every
// Catalog call and never mutated afterwards.
type Track struct {
	LanguageCode string // Language tag, ex: "en" or "en-US".
	Name         string // Human readable name, may be empty.
	Auto         bool   // Generated by speech recognition.
	BaseURL      string // Where the timed text lives, opaque to callers.
}

// Options configure a Client, the zero value is usable: default timeout, no
// proxy, no request pacing.
type Options struct {
	// Timeout applies per request, independent of any deadline on the
	// context of a whole run. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Proxy is an optional forward proxy URL for all outbound requests.
	Proxy string

	// RequestsPerSecond caps outbound requests underneath whatever batch
	// pacing callers do on top. Zero means no cap.
	RequestsPerSecond float64
}

// Client talks to the endpoints above. All configuration is explicit, there
// are no process-wide defaults to mutate.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	playerURL string
}

func New(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url %q: %w", opts.Proxy, err)
		}

		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = http.ProxyURL(proxyURL)
		transport = t
	}

	c := &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		playerURL: EndpointPlayer,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return c, nil
}

// do sends the request and maps the transport level failure modes onto the
// package's sentinel errors. A returned response always has status 200 and
// its body still open.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%v: %w", err, ErrTimeout)
		}

		return nil, err
	}

	switch res.StatusCode {
	case http.StatusOK:
		return res, nil
	case http.StatusTooManyRequests:
		res.Body.Close()
		return nil, ErrTooManyRequests
	case http.StatusUnauthorized, http.StatusForbidden:
		res.Body.Close()
		return nil, fmt.Errorf("got code %d: %w", res.StatusCode, ErrAccessDenied)
	default:
		res.Body.Close()
		return nil, fmt.Errorf("got code %d: %w", res.StatusCode, ErrNotOk)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
