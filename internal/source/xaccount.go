package source

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/extract"
)

// profileEventDomains is the allow-list of platform fragments an outbound
// profile link must contain to be worth crawling.
var profileEventDomains = []string{
	"lu.ma/",
	"luma.com/",
	"eventbrite.com/e/",
	"meetup.com/",
	"partiful.com/",
	"splashthat.com/",
	"tinyurl.com/",
	"bit.ly/",
}

// XAccountStrategy renders a social profile and classifies its outbound
// links: rendering-platform event pages go through the browser, everything
// else is fetched statically. Records are tagged with their social
// provenance either way.
type XAccountStrategy struct {
	deps Deps
}

// NewXAccountStrategy builds the profile-scan strategy.
func NewXAccountStrategy(deps Deps) *XAccountStrategy {
	return &XAccountStrategy{deps: deps}
}

// Kind returns the kind this strategy serves.
func (s *XAccountStrategy) Kind() event.SourceKind { return event.KindXAccount }

// Collect scans the profile and crawls each candidate link best-effort.
func (s *XAccountStrategy) Collect(ctx context.Context, src event.Source) ([]event.Record, error) {
	session, err := s.deps.Browser.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close() //nolint:errcheck // session teardown is best-effort

	// Profiles hydrate slowly; give them the longer settle interval.
	if err := session.Navigate(ctx, src.URL, s.deps.ProfileSettle); err != nil {
		return nil, err
	}
	anchors, err := session.Anchors(ctx)
	if err != nil {
		return nil, err
	}

	discovered := extract.DiscoverLinks(anchors, src.URL, func(u string) bool {
		for _, d := range profileEventDomains {
			if strings.Contains(u, d) {
				return true
			}
		}
		return false
	})
	links := capLinks(stripQueriesUnique(discovered), maxProfileLinks)

	var records []event.Record
	for _, link := range links {
		var (
			recs    []event.Record
			linkErr error
		)
		if extract.IsLumaEventURL(link) {
			recs, linkErr = collectRenderedDetail(ctx, session, src.Name, link, s.deps.Settle)
		} else {
			recs, linkErr = s.collectStaticDetail(ctx, src.Name, link)
		}
		if linkErr != nil {
			s.deps.logger().Debug("skipping profile link",
				zap.String("source", src.Name),
				zap.String("url", link),
				zap.Error(linkErr))
			continue
		}
		for i := range recs {
			recs[i].AddTag(event.TagFromX)
		}
		records = append(records, recs...)
	}
	return records, nil
}

func (s *XAccountStrategy) collectStaticDetail(ctx context.Context, sourceName, link string) ([]event.Record, error) {
	html, err := s.deps.Static.Get(ctx, link)
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
