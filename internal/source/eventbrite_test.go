package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finknottle/vc-events-collector/internal/event"
)

const listingURL = "https://www.eventbrite.com/o/some-fund"

func listingPage(hrefs ...string) string {
	page := "<html><body>"
	for _, h := range hrefs {
		page += `<a href="` + h + `">event</a>`
	}
	return page + "</body></html>"
}

func TestEventbriteListingCrawlsDetailPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		listingURL: listingPage(
			"https://www.eventbrite.com/e/pitch-night-123?aff=home",
			"https://www.eventbrite.com/e/pitch-night-123?aff=social",
			"https://www.eventbrite.com/about",
		),
		"https://www.eventbrite.com/e/pitch-night-123": jsonLDPage("Pitch Night", "2025-04-01"),
	}}
	s := NewEventbriteListingStrategy(Deps{Static: fetcher})

	records, err := s.Collect(context.Background(), event.Source{
		Name: "Fund Listing", URL: listingURL, Kind: event.KindEventbriteListing,
	})

	require.NoError(t, err)
	require.Len(t, records, 1, "tracking-parameter variants must collapse to one detail fetch")
	assert.Equal(t, "Pitch Night", records[0].Title)
	assert.Equal(t, "https://www.eventbrite.com/e/pitch-night-123", records[0].SourceURL)
	require.NotNil(t, records[0].RSVPURL)
	assert.Equal(t, "https://www.eventbrite.com/e/pitch-night-123", *records[0].RSVPURL)
}

func TestEventbriteListingSkipsFailingDetailPages(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]string{
			listingURL: listingPage(
				"https://www.eventbrite.com/e/bad-1",
				"https://www.eventbrite.com/e/good-2",
			),
			"https://www.eventbrite.com/e/good-2": jsonLDPage("Good Event", "2025-04-02"),
		},
		errs: map[string]error{
			"https://www.eventbrite.com/e/bad-1": errors.New("status 500"),
		},
	}
	s := NewEventbriteListingStrategy(Deps{Static: fetcher})

	records, err := s.Collect(context.Background(), event.Source{
		Name: "Fund Listing", URL: listingURL, Kind: event.KindEventbriteListing,
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Good Event", records[0].Title)
}

func TestEventbriteListingSeedFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{listingURL: errors.New("status 403")}}
	s := NewEventbriteListingStrategy(Deps{Static: fetcher})

	_, err := s.Collect(context.Background(), event.Source{
		Name: "Fund Listing", URL: listingURL, Kind: event.KindEventbriteListing,
	})

	require.Error(t, err)
}
