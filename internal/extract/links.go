package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// lumaEventPath matches a single-segment lu.ma/luma.com event page.
var lumaEventPath = regexp.MustCompile(`^https://(lu\.ma|luma\.com)/[a-z0-9]+$`)

// AnchorHrefs returns the raw href values of every anchor in a static page.
func AnchorHrefs(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		h, _ := sel.Attr("href")
		h = strings.TrimSpace(h)
		if h != "" {
			hrefs = append(hrefs, h)
		}
	})
	return hrefs
}

// DiscoverLinks resolves each raw href against base, silently dropping ones
// that fail to resolve, keeps only URLs satisfying keep, and deduplicates
// preserving first-seen order. Callers truncate to their own crawl cap.
func DiscoverLinks(hrefs []string, base string, keep func(string) bool) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{}, len(hrefs))
	var out []string
	for _, h := range hrefs {
		ref, err := url.Parse(strings.TrimSpace(h))
		if err != nil {
			continue
		}
		u := baseURL.ResolveReference(ref).String()
		if !keep(u) {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// StripQuery removes the query string and fragment from a URL.
func StripQuery(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return u
}

// IsLumaEventURL reports whether u looks like a single Luma event page,
// excluding the platform's own home path.
func IsLumaEventURL(u string) bool {
	return lumaEventPath.MatchString(strings.ToLower(u)) && !strings.Contains(u, "/home")
}

// bayAreaKeywords backs BayAreaLocation; matching is substring-based and
// intentionally loose.
var bayAreaKeywords = []string{
	"san francisco", "palo alto", "mountain view", "menlo park", "redwood city",
	"san jose", "oakland", "berkeley", "sunnyvale", "cupertino", "bay area",
}

// BayAreaLocation reports whether a free-text location mentions a Bay Area
// place name. Used by downstream dataset consumers for region filtering.
func BayAreaLocation(location string) bool {
	s := strings.ToLower(location)
	for _, k := range bayAreaKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
