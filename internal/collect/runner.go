// Package collect runs the full collection pipeline: it walks the source
// registry in order, isolates per-source failures, merges everything into one
// deduplicated dataset and writes it wholesale.
package collect

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/extract"
	"github.com/finknottle/vc-events-collector/internal/metrics"
	"github.com/finknottle/vc-events-collector/internal/source"
)

// StrategyResolver maps a source kind to its strategy.
type StrategyResolver interface {
	ForKind(kind event.SourceKind) (source.Strategy, error)
}

// Runner aggregates records across the registry. Collection is strictly
// sequential across sources to avoid bursts against third-party sites; the
// dedup map and error list are owned by the single loop below, so no locking
// is needed.
type Runner struct {
	resolver StrategyResolver
	logger   *zap.Logger
}

// NewRunner builds a Runner.
func NewRunner(resolver StrategyResolver, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{resolver: resolver, logger: logger}
}

// Run collects every source and returns the deduplicated dataset. A failed
// source contributes one error entry and never aborts the run.
func (r *Runner) Run(ctx context.Context, sources []event.Source) event.Dataset {
	var all []event.Record
	errs := make([]event.SourceError, 0)

	for _, src := range sources {
		records, err := r.collectOne(ctx, src)
		if err != nil {
			metrics.ObserveSource(string(src.Kind), true)
			r.logger.Warn("source failed",
				zap.String("source", src.Name),
				zap.String("url", src.URL),
				zap.Error(err))
			errs = append(errs, event.SourceError{
				Source: src.Name,
				URL:    src.URL,
				Error:  err.Error(),
			})
			continue
		}
		metrics.ObserveSource(string(src.Kind), false)
		metrics.AddRecords(src.Name, len(records))
		r.logger.Info("source collected",
			zap.String("source", src.Name),
			zap.String("kind", string(src.Kind)),
			zap.Int("records", len(records)))
		all = append(all, records...)
	}

	deduped := event.Dedup(all)
	metrics.ObserveRun()

	return event.Dataset{
		GeneratedAt: time.Now().UTC(),
		RunID:       newRunID(),
		Events:      deduped,
		Errors:      errs,
	}
}

func (r *Runner) collectOne(ctx context.Context, src event.Source) ([]event.Record, error) {
	strategy, err := r.resolver.ForKind(src.Kind)
	if err != nil {
		return nil, err
	}
	return strategy.Collect(ctx, src)
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// SeedsFromLinks turns harvested inbox links into ad-hoc registry entries,
// inferring the kind from the URL shape: rendering-platform event pages get
// the rendered strategy, everything else the plain html one.
func SeedsFromLinks(name string, links []string) []event.Source {
	metrics.AddHarvestedLinks(len(links))
	seeds := make([]event.Source, 0, len(links))
	for _, link := range links {
		kind := event.KindHTML
		if extract.IsLumaEventURL(link) {
			kind = event.KindLumaEvent
		}
		seeds = append(seeds, event.Source{Name: name, URL: link, Kind: kind})
	}
	return seeds
}
