package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/app"
	"github.com/finknottle/vc-events-collector/internal/collect"
	"github.com/finknottle/vc-events-collector/internal/config"
	"github.com/finknottle/vc-events-collector/internal/gmail"
	"github.com/finknottle/vc-events-collector/internal/logging"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface commands use. It lets tests inject a
// mock app.
type App interface {
	Close()
	GetLogger() *zap.Logger
	Config() config.Config
	Runner() *collect.Runner
	Sink() *collect.Sink
	Harvester() *gmail.Harvester
}

// newApp is the application factory. It is a variable so tests can replace
// it with a mock factory.
var newApp = func(_ context.Context) (App, error) {
	return app.New(cfgFile)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collector",
		Short: "Collects VC event listings into one deduplicated dataset.",
		Long: `collector discovers event records (talks, mixers, demo days) across
heterogeneous web sources - static pages, client-rendered calendars, listing
sites, social profiles and an email inbox - and normalizes them into one
deduplicated JSON dataset served by the static site.`,

		// Runs before every subcommand: build the application and stash it
		// in the command context.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newCollectCmd())
	cmd.AddCommand(newHarvestCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Error("command execution failed", zap.Error(err))
		os.Exit(1)
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
