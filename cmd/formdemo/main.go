package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdemo/internal/config"
	"github.com/goliatone/go-formdemo/internal/logging"
	"github.com/goliatone/go-formdemo/internal/metrics"
	"github.com/goliatone/go-formdemo/internal/site"
	"github.com/goliatone/go-formdemo/internal/statestore"
	"github.com/goliatone/go-formdemo/pkg/nav"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("formdemo", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := statestore.Open(logger, cfg.StoreOptions()...)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}

	siteDef, err := nav.LoadSite(cfg.Site)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("load site: %w", err)
	}

	srv, err := site.New(ctx,
		site.WithLogger(logger),
		site.WithStore(store),
		site.WithMetrics(metrics.New()),
		site.WithSite(siteDef),
		site.WithDefaultTheme(cfg.Theme),
		site.WithStateTTL(cfg.StateTTL),
		site.WithSubmitDelay(cfg.SubmitDelay),
		site.WithCookieSecure(cfg.CookieSecure),
	)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Warn("close state store", zap.Error(err))
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.String("state_backend", cfg.StateBackend),
		zap.Duration("submit_delay", cfg.SubmitDelay),
		zap.Strings("forms", srv.Forms()),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Grace)
	defer cancel()

	logger.Info("shutting down", zap.Duration("grace", cfg.Grace))
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	return nil
}
