package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/finops-dashboard/pkg/config"
	"github.com/de-tools/finops-dashboard/pkg/metrics"
	"github.com/de-tools/finops-dashboard/pkg/server"
	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/de-tools/finops-dashboard/pkg/services/activity"
	"github.com/de-tools/finops-dashboard/pkg/services/anomaly"
	"github.com/de-tools/finops-dashboard/pkg/services/dashboard"
	"github.com/de-tools/finops-dashboard/pkg/services/financials"
	"github.com/de-tools/finops-dashboard/pkg/services/integration"
	"github.com/de-tools/finops-dashboard/pkg/services/preferences"
	"github.com/de-tools/finops-dashboard/pkg/services/workflow"
	"github.com/de-tools/finops-dashboard/pkg/store/duckdb"
	duckdbactivity "github.com/de-tools/finops-dashboard/pkg/store/duckdb/activity"
	duckdbpreferences "github.com/de-tools/finops-dashboard/pkg/store/duckdb/preferences"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the FinOps dashboard",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML config file (default is ./finops.yaml when present)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())
	clock := clockwork.NewRealClock()

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath:  cfg.Database.Path,
		Threads: cfg.Database.Threads,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	activityStore, err := duckdbactivity.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create activity store: %w", err)
	}
	preferencesStore, err := duckdbpreferences.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create preferences store: %w", err)
	}

	store, err := memory.NewDefaultStore()
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}
	sessions, err := access.NewRegistry(cfg.Sessions.MaxSessions)
	if err != nil {
		return fmt.Errorf("failed to create session registry: %w", err)
	}
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	connector, err := newConnector(ctx, cfg.Integrations)
	if err != nil {
		return err
	}

	activityLog, err := activity.NewLog(activityStore, clock)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}

	feed, err := dashboard.NewFeed(store, cfg.Polling.Interval, clock)
	if err != nil {
		return fmt.Errorf("failed to create dashboard feed: %w", err)
	}
	if err := feed.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard feed: %w", err)
	}
	defer func() {
		if err := feed.Stop(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to stop dashboard feed")
		}
	}()

	lifecycle, err := anomaly.NewService(store, activityLog, feed.RefreshAll)
	if err != nil {
		return fmt.Errorf("failed to create anomaly service: %w", err)
	}
	workflowService, err := workflow.NewService(store, connector, activityLog, clock)
	if err != nil {
		return fmt.Errorf("failed to create workflow service: %w", err)
	}
	workflowService.Subscribe(feed.RefreshAll)

	financialsService, err := financials.NewService(store, clock)
	if err != nil {
		return fmt.Errorf("failed to create financials service: %w", err)
	}
	preferencesService, err := preferences.NewService(preferencesStore, clock)
	if err != nil {
		return fmt.Errorf("failed to create preferences service: %w", err)
	}

	api, err := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Dependencies: server.Dependencies{
			Store:       store,
			Sessions:    sessions,
			Financials:  financialsService,
			Anomalies:   lifecycle,
			Workflow:    workflowService,
			Preferences: preferencesService,
			Dashboard:   feed,
			Gatherer:    prometheus.DefaultGatherer,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to configure server: %w", err)
	}

	logger.Info().
		Str("connector", cfg.Integrations.Connector).
		Dur("poll_interval", cfg.Polling.Interval).
		Str("db", cfg.Database.Path).
		Msg("dashboard backend configured")

	return api.Start()
}

func newLogger(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func newConnector(ctx context.Context, cfg config.IntegrationsConfig) (integration.Connector, error) {
	simulated := integration.NewSimulated(cfg.SuccessRate, nil)

	var connector integration.Connector = simulated
	if cfg.Connector == config.ConnectorAWS {
		ce, err := integration.CostExplorerFactory(ctx, cfg.AWSProfile, simulated)
		if err != nil {
			return nil, fmt.Errorf("failed to create cost explorer connector: %w", err)
		}
		connector = ce
	}

	if cfg.RateLimit > 0 {
		connector = integration.NewThrottled(connector, cfg.RateLimit, cfg.Burst)
	}
	return connector, nil
}
