package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fragrancefinder/backend/config"
	httpDelivery "github.com/fragrancefinder/backend/internal/delivery/http"
	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/fragrancefinder/backend/internal/infrastructure/cache"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting Fragrance Finder v%s", version)
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalogue and index are built once and only read afterwards
	index, err := loadIndex(ctx, cfg)
	if err != nil {
		return err
	}

	var resultCache domain.CacheRepository
	if cfg.Cache.Type == "memory" {
		memoryCache := cache.NewMemoryCache(cache.Options{MaxEntries: cfg.Cache.MaxEntries})
		defer memoryCache.Close()
		resultCache = memoryCache
		log.Printf("Cache TTL: %s, max entries: %d", cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}

	service := newService(cfg, index, resultCache)

	log.Printf("Ranking: max_accords=%d, accord_limit=%d, name_limit=%d, debug=%v",
		cfg.Recommend.MaxAccords,
		cfg.Recommend.AccordLimit,
		cfg.Recommend.NameLimit,
		cfg.Recommend.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(service, cfg.UI)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
