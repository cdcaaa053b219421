package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rohits-web03/ledger/internal/api"
	"github.com/rohits-web03/ledger/internal/api/handlers"
	"github.com/rohits-web03/ledger/internal/config"
	"github.com/rohits-web03/ledger/internal/logger"
	"github.com/rohits-web03/ledger/internal/repositories"
)

// @title Ledger API
// @version 1.0
// @description Freelance project ledger: projects, sections, todos, hours, attachments and handover export.
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := repositories.OpenDatabase(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.CloseDatabase(db); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()
	log.Info("database ready", zap.String("driver", cfg.DBDriver))

	blobs, err := newBlobStore(cfg)
	if err != nil {
		return err
	}
	log.Info("blob store ready", zap.String("backend", cfg.StorageBackend))

	store := repositories.NewStore(db, blobs, log.Named("store"))
	h, err := handlers.New(store, cfg, log.Named("api"))
	if err != nil {
		return err
	}
	switch {
	case !h.AuthEnabled():
		log.Warn("no owner password configured, API is open")
	case cfg.Auth.JWTSecret == config.DefaultJWTSecret:
		log.Warn("JWT_SECRET is unset, sessions are signed with the development key")
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(h, cfg, log.Named("http")),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newBlobStore(cfg config.Config) (repositories.BlobStore, error) {
	switch cfg.StorageBackend {
	case config.BackendR2:
		return repositories.NewR2BlobStore(cfg.R2), nil
	default:
		return repositories.NewDiskBlobStore(cfg.UploadDir)
	}
}
