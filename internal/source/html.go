package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/extract"
)

// HTMLStrategy handles plain server-rendered pages: one static fetch,
// structured extraction first, heuristic line scan as the fallback.
type HTMLStrategy struct {
	deps Deps
}

// NewHTMLStrategy builds the strategy for plain html sources.
func NewHTMLStrategy(deps Deps) *HTMLStrategy {
	return &HTMLStrategy{deps: deps}
}

// Kind returns the kind this strategy serves.
func (s *HTMLStrategy) Kind() event.SourceKind { return event.KindHTML }

// Collect fetches the page and extracts events.
func (s *HTMLStrategy) Collect(ctx context.Context, src event.Source) ([]event.Record, error) {
	html, err := s.deps.Static.Get(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	prov := extract.Provenance{SourceName: src.Name, SourceURL: src.URL}
	if records := extract.Structured(html, prov); len(records) > 0 {
		return records, nil
	}

	records := extract.Heuristic(html, prov)
	s.deps.logger().Debug("structured extraction empty, used heuristic",
		zap.String("source", src.Name),
		zap.Int("records", len(records)))
	return records, nil
}
