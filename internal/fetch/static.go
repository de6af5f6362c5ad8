// Package fetch provides the two content-fetch strategies the collection
// pipeline consumes: a single-shot static HTTP fetch and a scoped
// headless-browser session for client-rendered pages.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// StaticConfig controls the static fetcher.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// Static issues one spoofed-UA GET per call, following redirects and
// rejecting non-success statuses. It is backed by a Colly collector with a
// pooled transport.
type Static struct {
	cfg           StaticConfig
	baseCollector *colly.Collector
}

// NewStatic builds a Static fetcher.
func NewStatic(cfg StaticConfig) *Static {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	return &Static{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Get fetches url and returns the response body as text. A connection
// failure or a non-2xx status yields a NetworkError.
func (f *Static) Get(ctx context.Context, url string) (string, error) {
	collector := f.baseCollector.Clone()
	collector.IgnoreRobotsTxt = true
	// Clone shares the visited-URL store; the same detail page may be
	// reached through several sources and on every re-collection.
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(f.cfg.Timeout)
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}

	var (
		body     []byte
		status   int
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", &NetworkError{URL: url, Err: fmt.Errorf("fetch canceled: %w", ctx.Err())}
	case err := <-done:
		if err != nil {
			return "", &NetworkError{URL: url, StatusCode: status, Err: err}
		}
	}
	if fetchErr != nil {
		return "", &NetworkError{URL: url, StatusCode: status, Err: fetchErr}
	}
	if status < 200 || status > 299 {
		return "", &NetworkError{URL: url, StatusCode: status}
	}
	return string(body), nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
