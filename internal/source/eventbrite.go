package source

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/extract"
)

// eventbriteDetailFragment marks an event-detail path on the listing site.
const eventbriteDetailFragment = "eventbrite.com/e/"

// EventbriteListingStrategy crawls a statically served listing page and then
// each discovered detail page, all over plain HTTP.
type EventbriteListingStrategy struct {
	deps Deps
}

// NewEventbriteListingStrategy builds the listing strategy.
func NewEventbriteListingStrategy(deps Deps) *EventbriteListingStrategy {
	return &EventbriteListingStrategy{deps: deps}
}

// Kind returns the kind this strategy serves.
func (s *EventbriteListingStrategy) Kind() event.SourceKind { return event.KindEventbriteListing }

// Collect fetches the listing, then each detail page up to the crawl cap.
func (s *EventbriteListingStrategy) Collect(ctx context.Context, src event.Source) ([]event.Record, error) {
	html, err := s.deps.Static.Get(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	discovered := extract.DiscoverLinks(extract.AnchorHrefs(html), src.URL, func(u string) bool {
		return strings.Contains(u, eventbriteDetailFragment)
	})
	links := capLinks(stripQueriesUnique(discovered), maxListingLinks)

	var records []event.Record
	for _, link := range links {
		detailHTML, err := s.deps.Static.Get(ctx, link)
		if err != nil {
			s.deps.logger().Debug("skipping listing detail link",
				zap.String("source", src.Name),
				zap.String("url", link),
				zap.Error(err))
			continue
		}
		recs := extract.Structured(detailHTML, extract.Provenance{
			SourceName: src.Name,
			SourceURL:  link,
		})
		for i := range recs {
			recs[i].PatchProvenance(link)
		}
		records = append(records, recs...)
	}
	return records, nil
}

// stripQueriesUnique drops query strings and re-deduplicates, since two
// listing links may differ only by tracking parameters.
func stripQueriesUnique(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		u := extract.StripQuery(l)
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
