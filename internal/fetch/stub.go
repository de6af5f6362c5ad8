package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubPage is a canned page served by a StubBrowser.
type StubPage struct {
	HTML    string
	Anchors []string
}

// StubBrowser implements Browser with static pages, letting strategy and
// pipeline tests run without headless Chrome.
type StubBrowser struct {
	mu    sync.Mutex
	pages map[string]StubPage
	// NavigateErrs forces specific URLs to fail navigation.
	NavigateErrs map[string]error
	opened       int
	closed       int
}

// NewStubBrowser creates a stub serving the given pages keyed by URL.
func NewStubBrowser(pages map[string]StubPage) *StubBrowser {
	if pages == nil {
		pages = map[string]StubPage{}
	}
	return &StubBrowser{pages: pages}
}

// Open returns a stub session.
func (b *StubBrowser) Open(_ context.Context) (Session, error) {
	b.mu.Lock()
	b.opened++
	b.mu.Unlock()
	return &stubSession{browser: b}, nil
}

// OpenCount reports how many sessions were opened.
func (b *StubBrowser) OpenCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened
}

// ClosedCount reports how many sessions were closed.
func (b *StubBrowser) ClosedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

type stubSession struct {
	browser *StubBrowser
	current string
}

func (s *stubSession) Navigate(_ context.Context, url string, _ time.Duration) error {
	s.browser.mu.Lock()
	defer s.browser.mu.Unlock()
	if err, ok := s.browser.NavigateErrs[url]; ok {
		return &BrowserError{URL: url, Err: err}
	}
	if _, ok := s.browser.pages[url]; !ok {
		return &BrowserError{URL: url, Err: fmt.Errorf("no stub page")}
	}
	s.current = url
	return nil
}

func (s *stubSession) Content(_ context.Context) (string, error) {
	s.browser.mu.Lock()
	defer s.browser.mu.Unlock()
	page, ok := s.browser.pages[s.current]
	if !ok {
		return "", &BrowserError{Err: fmt.Errorf("no page loaded")}
	}
	return page.HTML, nil
}

func (s *stubSession) Anchors(_ context.Context) ([]string, error) {
	s.browser.mu.Lock()
	defer s.browser.mu.Unlock()
	page, ok := s.browser.pages[s.current]
	if !ok {
		return nil, &BrowserError{Err: fmt.Errorf("no page loaded")}
	}
	return append([]string(nil), page.Anchors...), nil
}

func (s *stubSession) Close() error {
	s.browser.mu.Lock()
	s.browser.closed++
	s.browser.mu.Unlock()
	return nil
}
