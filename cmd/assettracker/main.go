package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/vbonduro/assettracker/internal/config"
	"github.com/vbonduro/assettracker/internal/logging"
	"github.com/vbonduro/assettracker/internal/store"
	"github.com/vbonduro/assettracker/internal/web"
)

var rootCmd = &cobra.Command{
	Use:           "assettracker",
	Short:         "Personal asset tracking service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace every asset with the sample data set",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// app holds what both commands need after startup.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	repo    store.Repository
	cleanup func()
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Text:  cfg.Debug(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	repo, err := store.Open(ctx, store.Options{
		DatabaseURL: cfg.DatabaseURL,
		Pool:        cfg.Pool(),
		Debug:       cfg.Debug(),
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database ready", "backend", store.Backend(repo), "env", cfg.Env)

	return &app{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		cleanup: func() {
			if err := repo.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
			closeLog()
		},
	}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()

	// sentry init needs to happen before the echo middlewares are added
	sentryEnabled := false
	if a.cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         a.cfg.SentryDSN,
			Environment: a.cfg.Env,
		}); err != nil {
			a.logger.Error("sentry init failed", "error", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	store.SeedIfEmpty(ctx, a.repo, a.logger)

	server := web.NewServer(a.repo, web.Options{
		AllowOrigins: a.cfg.CORSAllowOrigins,
		Debug:        a.cfg.Debug(),
		Sentry:       sentryEnabled,
	}, a.logger)

	if a.cfg.EnablePrometheus {
		metrics := server.EnableMetrics()
		go func() {
			addr := fmt.Sprintf(":%d", a.cfg.PrometheusPort)
			a.logger.Info("starting metrics server", "addr", addr)
			if err := metrics.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() { _ = metrics.Close() }()
	}

	if err := server.Run(ctx, a.cfg.ListenAddr()); err != nil {
		a.logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.cleanup()

	if err := a.repo.SeedSampleData(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	a.logger.Info("sample data written", "rows", len(store.SampleAssets()))
	fmt.Fprintln(os.Stdout, "sample data written")
	return nil
}
