// Package app initializes and holds long-lived application services, acting
// as a dependency injection container for the CLI commands.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/finknottle/vc-events-collector/internal/collect"
	"github.com/finknottle/vc-events-collector/internal/config"
	"github.com/finknottle/vc-events-collector/internal/fetch"
	"github.com/finknottle/vc-events-collector/internal/gmail"
	"github.com/finknottle/vc-events-collector/internal/logging"
	"github.com/finknottle/vc-events-collector/internal/metrics"
	"github.com/finknottle/vc-events-collector/internal/source"
)

// App holds the shared, long-lived services for one process: the logger and
// the fully wired collection pipeline. It is initialized once at startup and
// handed to the commands that need it.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	runner    *collect.Runner
	sink      *collect.Sink
	harvester *gmail.Harvester
}

// New loads configuration and wires every pipeline service. It fails fast if
// any critical service cannot be initialized.
func New(cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logging.InitLogger(cfg.Logging.Development); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.L

	metrics.Init()

	static := fetch.NewStatic(fetch.StaticConfig{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout(),
	})
	browser := fetch.NewChromedpBrowser(fetch.BrowserConfig{
		UserAgent:  cfg.Fetch.UserAgent,
		NavTimeout: cfg.Fetch.NavTimeout(),
		DomainQPS:  cfg.Fetch.DomainQPS,
	}, logger)

	registry := source.NewRegistry(source.Deps{
		Static:        static,
		Browser:       browser,
		Settle:        cfg.Fetch.Settle(),
		ProfileSettle: cfg.Fetch.ProfileSettle(),
		Logger:        logger,
	})

	sink, err := collect.NewSink(cfg.Output.Paths, logger)
	if err != nil {
		return nil, fmt.Errorf("init sink: %w", err)
	}

	harvester := gmail.New(gmail.Config{
		CredentialsPath: cfg.Gmail.CredentialsPath,
		TokenPath:       cfg.Gmail.TokenPath,
		MaxMessages:     cfg.Gmail.MaxMessages,
		Query:           cfg.Gmail.Query,
		IncludeDebug:    cfg.Gmail.IncludeDebug,
	}, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		runner:    collect.NewRunner(registry, logger),
		sink:      sink,
		harvester: harvester,
	}, nil
}

// Close flushes the logger.
func (a *App) Close() {
	_ = a.logger.Sync() // best-effort flush
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger { return a.logger }

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Runner returns the wired collection runner.
func (a *App) Runner() *collect.Runner { return a.runner }

// Sink returns the dataset sink.
func (a *App) Sink() *collect.Sink { return a.sink }

// Harvester returns the Gmail link harvester.
func (a *App) Harvester() *gmail.Harvester { return a.harvester }
