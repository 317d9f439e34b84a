package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"landguard-hq/landguard/pkg/config"
	"landguard-hq/landguard/pkg/monitor"
	"landguard-hq/landguard/pkg/policy"
	"landguard-hq/landguard/pkg/rules"
	"landguard-hq/landguard/pkg/telemetry/metrics"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the monitoring daemon",
	Long: `Start the monitoring daemon with the specified configuration.

The daemon evaluates every plot in the signals directory on the
configured cron schedule, stores detected violations, and optionally
serves Prometheus metrics.

Examples:
  # Start with default config
  landguard run

  # Start with custom config
  landguard run --config /etc/landguard/config.yaml

  # Validate config without starting
  landguard run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the daemon")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadDaemonConfig()
	if err != nil {
		return err
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("landguard starting",
		"version", Version,
		"schedule", cfg.Monitoring.Schedule,
		"policy_mode", cfg.Policy.Mode,
		"storage_backend", cfg.Storage.Backend,
	)

	storage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	source, err := buildPolicySource(cfg, logger)
	if err != nil {
		return err
	}
	policies, err := policy.NewManager(ctx, source, logger)
	if err != nil {
		return err
	}
	if gitSrc, ok := source.(*policy.GitSource); ok {
		head, err := gitSrc.Head(ctx)
		if err != nil {
			return err
		}
		logger.Info("active policy commit",
			"sha", head.SHA,
			"author", head.Author,
			"branch", head.Branch,
			"committed_at", head.Timestamp.UTC().Format(time.RFC3339),
		)
	}
	if cfg.Policy.Watch && cfg.Policy.Mode != config.PolicyModeStatic {
		go func() {
			if err := policies.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("policy watch stopped", "error", err)
			}
		}()
	}

	var collector *metrics.Collector
	var metricsSrv *http.Server
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
		policies.SetObserver(collector)
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		metricsSrv = &http.Server{
			Addr:    cfg.Telemetry.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			logger.Info("metrics endpoint listening",
				"address", cfg.Telemetry.Metrics.ListenAddress,
				"path", cfg.Telemetry.Metrics.Path,
			)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	engine, err := rules.NewEngine(policies.Current(), logger)
	if err != nil {
		return err
	}

	provider, err := monitor.NewFileProvider(cfg.Monitoring.SignalsDir)
	if err != nil {
		return err
	}

	mon, err := monitor.New(engine, policies, provider, storage, collector, logger)
	if err != nil {
		return err
	}

	if cfg.Monitoring.RunOnStart {
		cycleCtx, cancel := context.WithTimeout(ctx, cfg.Monitoring.CycleTimeout)
		if _, err := mon.RunCycle(cycleCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("startup evaluation cycle failed", "error", err)
		}
		cancel()
	}

	scheduler, err := monitor.NewScheduler(mon, cfg.Monitoring.Schedule, cfg.Monitoring.CycleTimeout, logger)
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")

	scheduler.Stop()
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("landguard stopped")
	return nil
}
