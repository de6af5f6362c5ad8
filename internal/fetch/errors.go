package fetch

import "fmt"

// NetworkError reports a failed static fetch: a connection failure or a
// non-success response status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying transport error, if any.
func (e *NetworkError) Unwrap() error { return e.Err }

// BrowserError reports a failed navigation or read inside a rendered session.
type BrowserError struct {
	URL string
	Err error
}

func (e *BrowserError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("browser: %v", e.Err)
	}
	return fmt.Sprintf("browser %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying chromedp error.
func (e *BrowserError) Unwrap() error { return e.Err }
