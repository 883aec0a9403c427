package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher retrieves pages from the auction site. Every request waits for the
// politeness throttle first, so callers never need to pace themselves.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher creates a fetcher with the configured delay and timeout.
func NewFetcher(config *Config) *Fetcher {
	limiter := rate.NewLimiter(rate.Every(config.RequestDelay), 1)
	// Drain the initial token so the very first request also waits
	limiter.Allow()

	return &Fetcher{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:   limiter,
		userAgent: config.UserAgent,
	}
}

// Fetch retrieves the page at url and returns its body. Transport errors and
// non-2xx statuses are returned as errors, never panics; callers treat any
// error as "page unavailable".
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("throttle wait interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("Error fetching %s: %v", url, err)
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Error fetching %s: HTTP %d", url, resp.StatusCode)
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading body of %s: %v", url, err)
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// Close releases idle connections held by the fetcher.
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}
