package source

import (
	"context"
	"fmt"
	"time"
)

// fakeFetcher serves canned pages for the static fetch path.
type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Get(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("unexpected fetch of %s", url)
	}
	return page, nil
}

func jsonLDPage(name, start string) string {
	return fmt.Sprintf(
		`<html><head><script type="application/ld+json">{"@type":"Event","name":%q,"startDate":%q}</script></head></html>`,
		name, start,
	)
}

const testSettle = 10 * time.Millisecond
