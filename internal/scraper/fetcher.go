package scraper

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/octobees/storefront-insights/internal/metrics"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxBodyBytes        = 8 << 20
)

// PageFetcher retrieves raw page markup. A false second return means the page
// is unavailable for any reason.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, bool)
}

// HTTPClient abstracts HTTP requests so tests can swap the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher issues single GET requests bounded by a timeout. It never retries and
// never reports transport failures to the caller.
type Fetcher struct {
	client    HTTPClient
	timeout   time.Duration
	userAgent string
}

// NewFetcher builds a fetcher. A nil client selects a default http.Client.
func NewFetcher(client HTTPClient, timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client, timeout: timeout, userAgent: userAgent}
}

// Fetch returns the body of url when it answers 200.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		metrics.RecordFetch(metrics.FetchBadRequest)
		return "", false
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.RecordFetch(metrics.FetchTransport)
		zerolog.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("fetch failed")
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetch(metrics.FetchBadStatus)
		zerolog.Ctx(ctx).Debug().Int("status", resp.StatusCode).Str("url", url).Msg("fetch rejected")
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordFetch(metrics.FetchTransport)
		return "", false
	}
	metrics.RecordFetch(metrics.FetchOK)
	return string(body), true
}

var _ PageFetcher = (*Fetcher)(nil)
