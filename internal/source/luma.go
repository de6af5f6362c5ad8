package source

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/extract"
	"github.com/finknottle/vc-events-collector/internal/fetch"
)

// LumaCalendarStrategy renders a client-side calendar, discovers the single
// event links it carries and crawls each for its structured data.
type LumaCalendarStrategy struct {
	deps Deps
}

// NewLumaCalendarStrategy builds the calendar strategy.
func NewLumaCalendarStrategy(deps Deps) *LumaCalendarStrategy {
	return &LumaCalendarStrategy{deps: deps}
}

// Kind returns the kind this strategy serves.
func (s *LumaCalendarStrategy) Kind() event.SourceKind { return event.KindLumaCalendar }

// Collect runs the two-level calendar crawl inside one browser session.
func (s *LumaCalendarStrategy) Collect(ctx context.Context, src event.Source) ([]event.Record, error) {
	session, err := s.deps.Browser.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close() //nolint:errcheck // session teardown is best-effort

	if err := session.Navigate(ctx, src.URL, s.deps.Settle); err != nil {
		return nil, err
	}
	calendarHTML, err := session.Content(ctx)
	if err != nil {
		return nil, err
	}
	anchors, err := session.Anchors(ctx)
	if err != nil {
		return nil, err
	}

	links := capLinks(extract.DiscoverLinks(anchors, src.URL, extract.IsLumaEventURL), maxCalendarLinks)

	var records []event.Record
	for _, link := range links {
		recs, err := collectRenderedDetail(ctx, session, src.Name, link, s.deps.Settle)
		if err != nil {
			s.deps.logger().Debug("skipping calendar event link",
				zap.String("source", src.Name),
				zap.String("url", link),
				zap.Error(err))
			continue
		}
		records = append(records, recs...)
	}

	// Some calendars embed their structured data directly.
	if len(records) == 0 {
		records = extract.Structured(calendarHTML, extract.Provenance{
			SourceName: src.Name,
			SourceURL:  src.URL,
		})
	}
	return records, nil
}

// LumaEventStrategy renders one seed event page directly, with no further
// link discovery.
type LumaEventStrategy struct {
	deps Deps
}

// NewLumaEventStrategy builds the single-event strategy.
func NewLumaEventStrategy(deps Deps) *LumaEventStrategy {
	return &LumaEventStrategy{deps: deps}
}

// Kind returns the kind this strategy serves.
func (s *LumaEventStrategy) Kind() event.SourceKind { return event.KindLumaEvent }

// Collect renders the seed URL and extracts its structured data.
func (s *LumaEventStrategy) Collect(ctx context.Context, src event.Source) ([]event.Record, error) {
	session, err := s.deps.Browser.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close() //nolint:errcheck // session teardown is best-effort

	return collectRenderedDetail(ctx, session, src.Name, src.URL, s.deps.Settle)
}

// collectRenderedDetail navigates an already open session to a detail page,
// extracts structured records and patches provenance to the page visited.
func collectRenderedDetail(
	ctx context.Context,
	session fetch.Session,
	sourceName, link string,
	settle time.Duration,
) ([]event.Record, error) {
	if err := session.Navigate(ctx, link, settle); err != nil {
		return nil, err
	}
	html, err := session.Content(ctx)
	if err != nil {
		return nil, err
	}
	records := extract.Structured(html, extract.Provenance{
		SourceName: sourceName,
		SourceURL:  link,
	})
	for i := range records {
		records[i].PatchProvenance(link)
	}
	return records, nil
}
