// Command server serves the live scheduling visualization: a websocket per
// browser session streaming one snapshot per tick, plus comparison and
// export endpoints and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miretskiy/schedsim/internal/config"
	"github.com/miretskiy/schedsim/internal/logging"
	"github.com/miretskiy/schedsim/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("loading environment", "error", err)
		os.Exit(1)
	}
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite run history database (empty disables history)")
	flag.StringVar(&cfg.TemplatePath, "template", cfg.TemplatePath, "Index page template")
	flag.Parse()

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.ServerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	if cfg.DBPath != "" {
		sqlite, err := store.NewSQLiteStore(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		if err := sqlite.Migrate(ctx); err != nil {
			return err
		}
		st = sqlite
		logger.Info("run history enabled", "db", cfg.DBPath)
	}

	srv, err := newServer(cfg, st, logger)
	if err != nil {
		return err
	}
	srv.shutdown = stop
	initPrometheusMetrics()

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logger.Info("server starting",
		"addr", cfg.Addr,
		"websocket", "ws://localhost"+cfg.Addr+"/ws",
		"shutdown", "http://localhost"+cfg.Addr+"/quitquitquit")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
