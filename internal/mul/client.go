// Package mul talks to the Master Unit List, the community catalog that
// carries battle values, costs, roles and per-era faction availability
// the unit files themselves lack. Fetching and importing are separate
// passes joined only by files on disk, so a fetch can run against the
// live site once and imports can replay from the local cache forever.
package mul

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://masterunitlist.azurewebsites.net"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	// Retry-After values above this are treated as this.
	retryAfterCap = 60 * time.Second
	// used when a 429 carries no usable Retry-After header
	retryAfterDefault = 5 * time.Second
)

// PermanentError marks a response that retrying cannot fix (404 and
// other non-transient statuses). Callers record these and move on.
type PermanentError struct {
	URL    string
	Status int
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("request to %s failed: HTTP %d", e.URL, e.Status)
}

// IsPermanent reports whether err wraps a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Client fetches listing and detail resources with retry and a courtesy
// delay between requests. 429 and 5xx responses and connection errors
// are retried with backoff; other failure statuses are permanent.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Delay   time.Duration

	log     *logrus.Logger
	backoff []time.Duration
}

func NewClient(baseURL string, delay time.Duration, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		HTTP:    &http.Client{Timeout: requestTimeout},
		BaseURL: baseURL,
		Delay:   delay,
		log:     log,
		backoff: []time.Duration{2 * time.Second, 5 * time.Second, 15 * time.Second},
	}
}

// FetchQuickList fetches one listing partition. The listing endpoint
// rejects oversized responses, so callers query it per tonnage range.
func (c *Client) FetchQuickList(ctx context.Context, typeID, minTons, maxTons int) ([]byte, error) {
	url := fmt.Sprintf("%s/Unit/QuickList?Types=%d&MinTons=%d&MaxTons=%d", c.BaseURL, typeID, minTons, maxTons)
	return c.get(ctx, url)
}

// FetchDetail fetches one unit's detail page HTML by catalog id.
func (c *Client) FetchDetail(ctx context.Context, mulID int64) ([]byte, error) {
	url := fmt.Sprintf("%s/Unit/Details/%d", c.BaseURL, mulID)
	return c.get(ctx, url)
}

// Pause sleeps the configured courtesy delay with ±30% jitter. Returns
// early when ctx is cancelled.
func (c *Client) Pause(ctx context.Context) {
	if c.Delay <= 0 {
		return
	}
	jitter := time.Duration(float64(c.Delay) * 0.3)
	d := c.Delay - jitter
	if jitter > 0 {
		d += time.Duration(rand.Int64N(int64(2 * jitter)))
	}
	sleep(ctx, d)
}

// errRateLimited marks a 429; the retry wait then comes from the
// Retry-After header instead of the backoff schedule.
var errRateLimited = errors.New("rate limited")

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, retryIn, err := c.once(ctx, url)
		if err == nil {
			return body, nil
		}
		if IsPermanent(err) {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("request to %s failed after %d retries: %w", url, maxRetries, err)
		}

		wait := c.backoff[min(attempt, len(c.backoff)-1)]
		if errors.Is(err, errRateLimited) {
			wait = retryIn
		}
		c.log.Warnf("request %s attempt %d: %v, retrying in %s", url, attempt+1, err, wait)
		if !sleep(ctx, wait) {
			return nil, ctx.Err()
		}
	}
}

// once performs a single request. retryIn is only meaningful alongside
// errRateLimited.
func (c *Client) once(ctx context.Context, url string) (body []byte, retryIn time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("read response body: %w", err)
		}
		return b, 0, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), errRateLimited

	case resp.StatusCode >= 500:
		return nil, 0, fmt.Errorf("HTTP %d", resp.StatusCode)

	default:
		return nil, 0, &PermanentError{URL: url, Status: resp.StatusCode}
	}
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return retryAfterDefault
	}
	d := time.Duration(secs) * time.Second
	if d > retryAfterCap {
		return retryAfterCap
	}
	return d
}

// sleep waits d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
