package transcript

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	"github.com/laytan/tubescribe/internal/tube"
	"github.com/laytan/tubescribe/internal/ytid"
)

// FetchWithRetry is Fetch with exponential backoff around transient
// failures, for callers that asked for it. Failures that can't heal on their
// own (bad identifier, no captions, access denied) fail on the first
// attempt. retries is the number of attempts after the first, zero behaves
// exactly like Fetch.
func (f *Fetcher) FetchWithRetry(
	ctx context.Context,
	input string,
	retries uint64,
) (*Transcript, error) {
	return f.fetchRetry(ctx, input, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries))
}

func (f *Fetcher) fetchRetry(
	ctx context.Context,
	input string,
	policy backoff.BackOff,
) (*Transcript, error) {
	var result *Transcript
	op := func() error {
		transcript, err := f.Fetch(ctx, input)
		if err != nil {
			if isPermanent(err) {
				return backoff.Permanent(err)
			}

			return err
		}

		result = transcript
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}

	return result, nil
}

// Throttling, timeouts and flaky upstream status codes are worth another
// try, everything else is a property of the video or the caller.
func isPermanent(err error) bool {
	return errors.Is(err, ytid.ErrInvalid) ||
		errors.Is(err, tube.ErrNoCaptions) ||
		errors.Is(err, tube.ErrNoSuitableTrack) ||
		errors.Is(err, tube.ErrEmptyTrack) ||
		errors.Is(err, tube.ErrAccessDenied) ||
		errors.Is(err, context.Canceled)
}
