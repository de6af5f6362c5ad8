package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/fetch"
)

func TestHTMLStrategyPrefersStructuredData(t *testing.T) {
	// The page carries both structured data and a date-looking line; the
	// heuristic output must never be consulted once structured data exists.
	page := `<html><head>
<script type="application/ld+json">{"@type":"Event","name":"Structured Night","startDate":"2025-03-01"}</script>
</head><body><h2>Founder Mixer - Jan 20, 2025</h2></body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/events": page}}
	s := NewHTMLStrategy(Deps{Static: fetcher})

	records, err := s.Collect(context.Background(), event.Source{
		Name: "Example", URL: "https://example.com/events", Kind: event.KindHTML,
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Structured Night", records[0].Title)
}

func TestHTMLStrategyFallsBackToHeuristic(t *testing.T) {
	page := `<html><body><h2>Founder Mixer - Jan 20, 2025</h2></body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{"https://example.com/events": page}}
	s := NewHTMLStrategy(Deps{Static: fetcher})

	records, err := s.Collect(context.Background(), event.Source{
		Name: "Example", URL: "https://example.com/events", Kind: event.KindHTML,
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Founder Mixer - Jan 20, 2025", records[0].Title)
	assert.Nil(t, records[0].Start)
}

func TestHTMLStrategyRecollectsUnchangedPage(t *testing.T) {
	// Re-collection and cross-source overlap hit the same URL repeatedly
	// through the real fetcher; both passes must yield identical records.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jsonLDPage("Demo Night", "2025-03-01")))
	}))
	defer srv.Close()

	s := NewHTMLStrategy(Deps{Static: fetch.NewStatic(fetch.StaticConfig{Timeout: 5 * time.Second})})
	src := event.Source{Name: "Example", URL: srv.URL, Kind: event.KindHTML}

	first, err := s.Collect(context.Background(), src)
	require.NoError(t, err)
	second, err := s.Collect(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
}

func TestHTMLStrategyPropagatesFetchFailure(t *testing.T) {
	wantErr := errors.New("status 404")
	fetcher := &fakeFetcher{errs: map[string]error{"https://example.com/events": wantErr}}
	s := NewHTMLStrategy(Deps{Static: fetcher})

	_, err := s.Collect(context.Background(), event.Source{
		Name: "Example", URL: "https://example.com/events", Kind: event.KindHTML,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
