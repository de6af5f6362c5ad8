// Package cmd defines and implements the CLI commands for the collector
// executable.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/collect"
	"github.com/finknottle/vc-events-collector/internal/event"
)

// harvestSourceName labels registry entries seeded from the inbox.
const harvestSourceName = "Gmail Inbox"

func seedsFromHarvest(links []string) []event.Source {
	return collect.SeedsFromLinks(harvestSourceName, links)
}

// newCollectCmd creates the 'collect' subcommand, which runs the full
// pipeline over the configured source registry and writes the dataset.
func newCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Runs the collection pipeline and writes the dataset",
		Long: `Walks the configured source registry in order, collects and normalizes
event records from every source, folds in links harvested from the inbox,
and replaces the output dataset wholesale. Failed sources are reported in
the dataset's errors array; only a failed dataset write fails the run.`,

		RunE: runCollectCommand,
	}
	return cmd
}

func runCollectCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := appInstance.GetLogger()

	sources := appInstance.Config().Sources

	// Inbox links become ad-hoc seeds. A harvester failure is logged, never
	// allowed to take the web pipeline down with it.
	harvest, err := appInstance.Harvester().Harvest(ctx)
	switch {
	case err != nil:
		logger.Warn("gmail harvest failed, continuing with configured sources", zap.Error(err))
	case harvest.Meta.Enabled:
		logger.Info("gmail harvest merged",
			zap.Int("scanned", harvest.Meta.Scanned),
			zap.Int("links", len(harvest.Links)))
		sources = append(sources, seedsFromHarvest(harvest.Links)...)
	}

	dataset := appInstance.Runner().Run(ctx, sources)

	if err := appInstance.Sink().Write(ctx, dataset); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	logger.Info("collection run complete",
		zap.String("run_id", dataset.RunID),
		zap.Int("events", len(dataset.Events)),
		zap.Int("source_errors", len(dataset.Errors)))
	return nil
}
