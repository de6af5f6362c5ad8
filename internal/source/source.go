// Package source implements the per-kind collection strategies. Each
// strategy encodes one crawl shape: single page, two-level listing-to-detail
// crawl, or profile-link classification.
package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/fetch"
)

// Crawl fan-out caps. They bound load on third-party sites, they do not rank
// relevance.
const (
	maxCalendarLinks = 40
	maxListingLinks  = 40
	maxProfileLinks  = 25
)

// PageFetcher is the static fetch capability a strategy consumes.
type PageFetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// Strategy collects every event record one source yields. A fetch or render
// failure of the seed page fails the whole source; failures on individually
// discovered detail links are skipped.
type Strategy interface {
	Kind() event.SourceKind
	Collect(ctx context.Context, src event.Source) ([]event.Record, error)
}

// Deps carries the collaborators shared by all strategies.
type Deps struct {
	Static        PageFetcher
	Browser       fetch.Browser
	Settle        time.Duration
	ProfileSettle time.Duration
	Logger        *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Registry maps source kinds to their strategies.
type Registry struct {
	strategies map[event.SourceKind]Strategy
}

// NewRegistry wires one strategy per supported kind.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{strategies: make(map[event.SourceKind]Strategy)}
	for _, s := range []Strategy{
		NewHTMLStrategy(deps),
		NewLumaCalendarStrategy(deps),
		NewLumaEventStrategy(deps),
		NewEventbriteListingStrategy(deps),
		NewXAccountStrategy(deps),
	} {
		r.strategies[s.Kind()] = s
	}
	return r
}

// ForKind returns the strategy registered for kind.
func (r *Registry) ForKind(kind event.SourceKind) (Strategy, error) {
	s, ok := r.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind: %s", kind)
	}
	return s, nil
}

func capLinks(links []string, maxN int) []string {
	if len(links) > maxN {
		return links[:maxN]
	}
	return links
}
