// Command sample-graph-api serves the song relationship graph over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sample-graph/sample-graph-api/internal/api"
	"github.com/sample-graph/sample-graph-api/internal/config"
	"github.com/sample-graph/sample-graph-api/internal/db"
	"github.com/sample-graph/sample-graph-api/internal/db/migrations"
	"github.com/sample-graph/sample-graph-api/internal/service"
	"github.com/sample-graph/sample-graph-api/internal/store"
	"github.com/sample-graph/sample-graph-api/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

var (
	flagEnvFile string
	flagHost    string
	flagPort    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sample-graph-api",
		Short:        "Song sample and interpolation graph API",
		Version:      config.Version,
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file loaded before reading the environment")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&flagHost, "host", "", "Listen host (overrides LISTEN_HOST)")
	serveCmd.Flags().StringVar(&flagPort, "port", "", "Listen port (overrides PORT)")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply cache database migrations and exit",
		RunE:  runMigrate,
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the optional dotenv file, then the environment.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading %s: %w", flagEnvFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if flagHost != "" {
		cfg.ListenHost = flagHost
	}
	if flagPort != "" {
		cfg.Port = flagPort
	}

	return cfg, newLogger(cfg.LogLevel), nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to run migrations")
	}

	return db.RunMigrations(cmd.Context(), cfg.DatabaseURL.Value(), log, migrations.FS)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "sample-graph-api",
		ServiceVersion: config.Version,
		Exporter:       cfg.TracesExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		OTLPInsecure:   isLoopback(cfg.OTLPEndpoint),
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracer shutdown failed")
		}
	}()

	backend, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	src, err := openSource(cfg, log)
	if err != nil {
		return err
	}

	st := store.New(backend, src, cfg.CacheExpiry, log)
	songs := service.NewSongService(st, log)
	graph := service.NewGraphService(st, cfg.GraphWorkers, log)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:          log,
		Songs:        songs,
		Graph:        graph,
		Cache:        backend,
		CacheBackend: cfg.CacheBackend,
		CORSOrigins:  cfg.CORSOrigins,
		RateLimit:    cfg.RateLimit,
		RateWindow:   cfg.RateWindow,
		MaxDegree:    cfg.MaxDegree,
		Version:      config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"source":  cfg.SongSource,
			"cache":   cfg.CacheBackend,
			"version": config.Version,
		}).Info("sample-graph-api listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	return nil
}

func isLoopback(endpoint string) bool {
	host, _, err := net.SplitHostPort(endpoint)
	if err != nil {
		host = endpoint
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
