package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	sigs "os/signal"
	"syscall"
	"time"

	"github.com/afeedhshaji/gemini-dashboard/config"
	"github.com/afeedhshaji/gemini-dashboard/internal/catalog"
	"github.com/afeedhshaji/gemini-dashboard/internal/gemini"
	"github.com/afeedhshaji/gemini-dashboard/internal/log"
	"github.com/afeedhshaji/gemini-dashboard/internal/server"
	"github.com/afeedhshaji/gemini-dashboard/pkg/llm"
	"github.com/afeedhshaji/gemini-dashboard/pkg/openrouter"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	log.Infof("Loaded config: %+v", cfg.Redacted())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Error creating generation client: %v", err)
	}

	models := catalog.Default()
	if cfg.ModelCatalogFile != "" {
		models, err = catalog.Load(cfg.ModelCatalogFile)
		if err != nil {
			log.Fatalf("Error loading model catalog: %v", err)
		}
	}

	srv, err := server.New(gen, models)
	if err != nil {
		log.Fatalf("Error building server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	sigs.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan error, 1)

	go func() {
		log.Infof("listening on %s (backend=%s, %d models)", cfg.Addr(), cfg.Backend, len(models.Models()))
		done <- httpServer.ListenAndServe()
	}()

	select {
	case <-stop:
		log.Infof("shutdown requested")
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.Duration(cfg.ShutdownTimeout))
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	log.Infof("exited")
}

func newGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	switch cfg.Backend {
	case config.BackendOpenRouter:
		return openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterURL, config.Duration(cfg.OpenRouterTimeout)), nil
	default:
		return gemini.New(ctx, cfg.GoogleAPIKey, config.Duration(cfg.GeminiTimeout))
	}
}
