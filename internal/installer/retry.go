// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// retryAttempts is the total number of download attempts before
	// giving up on a retryable failure.
	retryAttempts = 10

	// defaultRetryFloor is the minimum wait between attempts. The
	// exponential curve stays below it for the whole attempt budget, so
	// production retries are effectively paced at this interval.
	defaultRetryFloor = 15 * time.Second
)

// StatusError reports an HTTP response with an unexpected status code.
type StatusError struct {
	URL  string
	Code int
}

// Error formats the failed request for diagnostics.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// retryableStatus reports whether a status code indicates a transient
// server-side failure worth retrying.
func retryableStatus(code int) bool {
	return code == http.StatusInternalServerError || code == http.StatusServiceUnavailable
}

// expFloorBackOff waits e^(attempt/4) seconds between attempts, floored
// at a minimum wait. It implements backoff.BackOff.
type expFloorBackOff struct {
	attempt int
	floor   time.Duration
}

func newExpFloorBackOff() backoff.BackOff {
	return &expFloorBackOff{floor: defaultRetryFloor}
}

// NextBackOff returns the wait before the next attempt.
func (b *expFloorBackOff) NextBackOff() time.Duration {
	wait := time.Duration(math.Exp(float64(b.attempt)/4) * float64(time.Second))
	b.attempt++
	if wait < b.floor {
		wait = b.floor
	}
	return wait
}

// Reset restarts the curve.
func (b *expFloorBackOff) Reset() {
	b.attempt = 0
}

// fetchWithRetry issues a GET for url, retrying transport failures and
// 500/503 responses up to the attempt budget with the configured wait
// policy. Any other non-200 status aborts immediately with a
// StatusError. The caller owns the returned body.
func (inst *Installer) fetchWithRetry(ctx context.Context, url string) (io.ReadCloser, error) {
	var body io.ReadCloser

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := inst.httpClient.Do(req)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			body = resp.Body
			return nil
		case retryableStatus(resp.StatusCode):
			resp.Body.Close()
			return &StatusError{URL: url, Code: resp.StatusCode}
		default:
			resp.Body.Close()
			return backoff.Permanent(&StatusError{URL: url, Code: resp.StatusCode})
		}
	}

	notify := func(err error, wait time.Duration) {
		inst.logger.Warn("download failed, will retry",
			"url", url, "wait", wait.Round(10*time.Millisecond), "err", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(inst.newBackOff(), retryAttempts-1), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !retryableStatus(statusErr.Code) {
			return nil, statusErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("retrieving %s after %d attempts: %w (last error: %v)",
			url, retryAttempts, ErrRetriesExhausted, err)
	}
	return body, nil
}
