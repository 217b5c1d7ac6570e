package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	h "github.com/accio-dl/accio-downloader/internal/api/http"
	cfgpkg "github.com/accio-dl/accio-downloader/internal/config"
	"github.com/accio-dl/accio-downloader/internal/extractor"
	"github.com/accio-dl/accio-downloader/internal/organize"
	"github.com/accio-dl/accio-downloader/internal/remote"
	repo "github.com/accio-dl/accio-downloader/internal/repository"
	svc "github.com/accio-dl/accio-downloader/internal/service"
	"github.com/accio-dl/accio-downloader/internal/worker"
)

func main() {
	cfg, err := cfgpkg.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfgpkg.SetupLogger(cfg)
	slog.Info("configuration loaded successfully")

	store, err := repo.NewSQLiteTaskStore(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to initialize task store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	logger := slog.Default()

	ext := extractor.NewYtdlpExtractor(cfg.CookiesFile, logger)
	organizer := organize.NewOrganizer(cfg.DownloadDir, logger)

	var syncer remote.Syncer
	if cfg.RemoteSyncEnabled() {
		syncer = remote.NewWebDAVSyncer(cfg, logger)
		slog.Info("remote sync enabled", "root", cfg.WebDAVRoot)
	}

	pool := worker.NewPool(store, ext, organizer, syncer, cfg, logger)
	taskService := svc.NewTaskService(store, ext, pool, cfg, logger)

	router := h.NewRouter(taskService, cfg, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  cfg.HTTPTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if err := pool.Shutdown(shutdownCtx); err != nil {
		slog.Error("worker pool shutdown failed", "error", err)
	} else {
		slog.Info("server stopped gracefully")
	}
}
