package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Session is the narrow headless-browser capability the strategies consume.
// One session owns one tab, reused across sequential navigations, and must be
// closed on every exit path.
type Session interface {
	// Navigate loads url, waits for the body to be ready and then sleeps
	// settle to let client-side hydration finish.
	Navigate(ctx context.Context, url string, settle time.Duration) error
	// Content returns the fully rendered DOM serialization.
	Content(ctx context.Context) (string, error)
	// Anchors returns the raw href values of every anchor in the DOM.
	Anchors(ctx context.Context) ([]string, error)
	Close() error
}

// Browser opens scoped sessions. Decoupling the strategies from chromedp
// lets tests drive them with a static-HTML stub.
type Browser interface {
	Open(ctx context.Context) (Session, error)
}

// BrowserConfig controls the chromedp-backed browser.
type BrowserConfig struct {
	UserAgent  string
	NavTimeout time.Duration
	DomainQPS  float64
}

// ChromedpBrowser implements Browser with headless Chrome via chromedp.
type ChromedpBrowser struct {
	cfg    BrowserConfig
	logger *zap.Logger
}

// NewChromedpBrowser creates a browser factory using the provided configuration.
func NewChromedpBrowser(cfg BrowserConfig, logger *zap.Logger) *ChromedpBrowser {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 45 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromedpBrowser{cfg: cfg, logger: logger}
}

// Open launches headless Chrome and returns a session bound to one tab.
func (b *ChromedpBrowser) Open(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	warmup := chromedp.Tasks{network.Enable()}
	if b.cfg.UserAgent != "" {
		warmup = append(warmup, emulation.SetUserAgentOverride(b.cfg.UserAgent))
	}
	if err := chromedp.Run(tabCtx, warmup...); err != nil {
		tabCancel()
		allocCancel()
		return nil, &BrowserError{Err: fmt.Errorf("chromedp warmup: %w", err)}
	}

	return &chromedpSession{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		navTimeout:  b.cfg.NavTimeout,
		domainQPS:   b.cfg.DomainQPS,
		logger:      b.logger,
	}, nil
}

type chromedpSession struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	navTimeout  time.Duration
	domainQPS   float64
	limiters    sync.Map
	logger      *zap.Logger
}

// Navigate loads the page and waits for hydration.
func (s *chromedpSession) Navigate(ctx context.Context, rawURL string, settle time.Duration) error {
	if err := s.waitDomainBudget(ctx, rawURL); err != nil {
		return &BrowserError{URL: rawURL, Err: err}
	}

	taskCtx, cancel := context.WithTimeout(s.tabCtx, s.navTimeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	tasks := chromedp.Tasks{
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if settle > 0 {
		tasks = append(tasks, chromedp.Sleep(settle))
	}
	if err := chromedp.Run(taskCtx, tasks...); err != nil {
		return &BrowserError{URL: rawURL, Err: fmt.Errorf("chromedp run: %w", err)}
	}
	return nil
}

// Content snapshots the rendered DOM.
func (s *chromedpSession) Content(ctx context.Context) (string, error) {
	taskCtx, cancel := context.WithTimeout(s.tabCtx, s.navTimeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &BrowserError{Err: fmt.Errorf("read dom: %w", err)}
	}
	return html, nil
}

// Anchors lists the href attribute of every anchor currently in the DOM.
func (s *chromedpSession) Anchors(ctx context.Context) ([]string, error) {
	taskCtx, cancel := context.WithTimeout(s.tabCtx, s.navTimeout)
	defer cancel()
	stop := forwardCancel(ctx, cancel)
	defer stop()

	const script = `Array.from(document.querySelectorAll('a[href]'))
		.map((a) => a.getAttribute('href'))
		.filter(Boolean)
		.map((h) => h.trim())`
	var hrefs []string
	if err := chromedp.Run(taskCtx, chromedp.Evaluate(script, &hrefs)); err != nil {
		return nil, &BrowserError{Err: fmt.Errorf("read anchors: %w", err)}
	}
	return hrefs, nil
}

// Close tears down the tab and the allocator.
func (s *chromedpSession) Close() error {
	s.tabCancel()
	s.allocCancel()
	return nil
}

func (s *chromedpSession) waitDomainBudget(ctx context.Context, rawURL string) error {
	if s.domainQPS <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse render url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	val, _ := s.limiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(s.domainQPS), 1))
	limiter, ok := val.(*rate.Limiter)
	if !ok {
		return fmt.Errorf("unexpected limiter type %T", val)
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait limiter: %w", err)
	}
	return nil
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
