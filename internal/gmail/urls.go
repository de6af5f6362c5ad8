package gmail

import (
	"regexp"
	"strings"
)

// urlPattern is a simple URL matcher, good enough for email bodies. It will
// happily over-match markup remnants; the trailing-punctuation trim and the
// allow-list below do the cleanup.
var urlPattern = regexp.MustCompile(`https?://[^\s<>()\[\]"']+`)

var trailingPunct = regexp.MustCompile(`[).,;!?]+$`)

// allowFragments is the allow-list of event-platform fragments a harvested
// URL must contain.
var allowFragments = []string{
	"lu.ma/",
	"luma.com/",
	"eventbrite.com/e/",
	"meetup.com/",
	"partiful.com/",
	"splashthat.com/",
	"zoom.us/",
	"calendly.com/",
	"plugandplaytechcenter.com/all-events",
}

// denyFragments rejects tracking, account and unsubscribe links that would
// otherwise pass the allow-list via redirect wrappers.
var denyFragments = []string{
	"google.com/url?",
	"accounts.google.com/",
	"mail.google.com/",
	"support.google.com/",
	"unsubscribe",
	"preferences",
}

// ExtractURLs scans free text for URLs, trimming common trailing punctuation
// from each match and deduplicating in order of first sight.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		u := trailingPunct.ReplaceAllString(m, "")
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// FilterCandidates keeps allow-listed event-platform URLs, rejects
// deny-listed ones and strips query and fragment suffixes.
func FilterCandidates(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !containsAny(u, allowFragments) {
			continue
		}
		if containsAny(strings.ToLower(u), denyFragments) {
			continue
		}
		if i := strings.IndexByte(u, '#'); i >= 0 {
			u = u[:i]
		}
		if i := strings.IndexByte(u, '?'); i >= 0 {
			u = u[:i]
		}
		out = append(out, u)
	}
	return out
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
