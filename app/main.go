package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dpogorelov/strapi-sitemap/app/api"
	"github.com/dpogorelov/strapi-sitemap/app/cfg"
	"github.com/dpogorelov/strapi-sitemap/app/database"
	"github.com/dpogorelov/strapi-sitemap/app/generate"
	"github.com/dpogorelov/strapi-sitemap/app/sitemap"
	"github.com/dpogorelov/strapi-sitemap/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// No client-level timeout: requests run to completion or until the
	// transport reports failure.
	httpClient := &http.Client{}

	var runRepo database.RunRepository
	if appCfg.DBPath != "" {
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Debug("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

		runRepo = database.NewRunRepository(db)
	}

	runner := generate.NewRunner(appCfg, runRepo, httpClient)

	if !appCfg.Serve {
		if _, err := runner.Run(context.Background()); err != nil {
			slog.Error("Generation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	runServe(appCfg, runner, runRepo)
}

func runServe(appCfg *cfg.Cfg, runner *generate.Runner, runRepo database.RunRepository) {
	slog.Info("Starting strapi-sitemap server", "version", appCfg.Version, "port", appCfg.Port)

	holder := sitemap.NewHolder()

	scheduler := tasks.NewScheduler(runner, holder, time.Duration(appCfg.RefreshInterval)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	watcher, err := tasks.NewConfigWatcher(appCfg.ConfigFile, scheduler)
	if err != nil {
		slog.Warn("Config watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Warn("Failed to start config watcher", "error", err)
	} else {
		defer watcher.Stop()
	}

	handler := api.NewHandler(holder, runRepo, scheduler, appCfg.Version, appCfg.GenerateFeed)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
