package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/hash/stable"
)

const (
	// minLineLen filters out trivial text nodes.
	minLineLen = 10
	// maxHeuristicLines bounds how many candidate lines one page may yield.
	maxHeuristicLines = 250
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// monthAbbrevs is a deliberately crude positive-only date signal:
	// substring matches produce false positives ("January sale", "Maya")
	// and no negative filtering is attempted. The fallback's value is
	// breadth, not precision.
	monthAbbrevs = []string{
		"jan", "feb", "mar", "apr", "may", "jun",
		"jul", "aug", "sep", "oct", "nov", "dec",
	}
)

// LikelyDateLine reports whether a text line plausibly mentions a date,
// using case-insensitive month-abbreviation substrings. No date parsing is
// performed.
func LikelyDateLine(s string) bool {
	t := strings.ToLower(s)
	for _, m := range monthAbbrevs {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}

// Heuristic scans heading, paragraph and list-item text for date-looking
// lines and returns skeleton records carrying only a title and provenance.
// Invoked only when Structured returned nothing.
func Heuristic(html string, prov Provenance) []event.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var candidates []string
	doc.Find("h1,h2,h3,p,li").Each(func(_ int, sel *goquery.Selection) {
		t := strings.TrimSpace(whitespaceRun.ReplaceAllString(sel.Text(), " "))
		if len(t) < minLineLen {
			return
		}
		if !LikelyDateLine(t) {
			return
		}
		candidates = append(candidates, t)
	})
	if len(candidates) > maxHeuristicLines {
		candidates = candidates[:maxHeuristicLines]
	}

	records := make([]event.Record, 0, len(candidates))
	for _, t := range candidates {
		records = append(records, event.Record{
			ID:         stable.ID(prov.SourceName, t),
			Title:      truncateTitle(t),
			Timezone:   event.DefaultTimezone,
			Region:     "unknown",
			SourceName: prov.SourceName,
			SourceURL:  prov.SourceURL,
			Tags:       []string{},
		})
	}
	return event.Dedup(records)
}
