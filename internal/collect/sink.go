package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/event"
)

// Sink writes the dataset wholesale to one or more paths. The same payload
// lands next to the data archive and the static site, as the site serves the
// dataset directly.
type Sink struct {
	paths  []string
	logger *zap.Logger
}

// NewSink returns a sink writing to paths.
func NewSink(paths []string, logger *zap.Logger) (*Sink, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("sink needs at least one output path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{paths: paths, logger: logger}, nil
}

// Write replaces every output file with the dataset. This is the only step
// of a run whose failure is fatal.
func (s *Sink) Write(ctx context.Context, ds event.Dataset) error {
	payload, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context canceled: %w", err)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("creating output dir for %s: %w", path, err)
			}
		}
		if err := os.WriteFile(path, payload, 0o600); err != nil {
			return fmt.Errorf("write dataset %s: %w", path, err)
		}
		s.logger.Info("dataset written",
			zap.String("path", path),
			zap.Int("events", len(ds.Events)),
			zap.Int("errors", len(ds.Errors)))
	}
	return nil
}
