//	@title			Doggy Delights API
//	@version		1.0
//	@description	Upload dog pictures, browse the gallery and clear it.
//
//	@host		localhost:3000
//	@BasePath	/

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/doggydelights/service/internal/config"
	"github.com/doggydelights/service/internal/gallery"
	"github.com/doggydelights/service/internal/logging"
	appMiddleware "github.com/doggydelights/service/internal/middleware"
	"github.com/doggydelights/service/internal/naming"
	"github.com/doggydelights/service/internal/storage"

	_ "github.com/doggydelights/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	logger := logging.CreateLogger(logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	store, err := newStorage(context.Background(), cfg)
	if err != nil {
		logger.Error("object storage init failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	// Wire dependencies: storage → service → handler
	names := naming.NewGenerator(logger)
	gallerySvc := gallery.NewService(store, names, cfg.GalleryFolder, logger)
	hub := gallery.NewHub(logger)
	galleryHandler := gallery.NewHandler(gallerySvc, hub, cfg.MaxUploadBytes, cfg.AllowedOrigins, logger)

	r := newRouter(cfg, galleryHandler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv, "storage", cfg.StorageDriver, "folder", cfg.GalleryFolder)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("closing storage client failed", "error", err)
		}
	}

	logger.Info("server stopped")
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMinio:
		return storage.NewMinioStorage(ctx,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
		)
	case config.DriverGCS:
		return storage.NewGCSStorage(ctx, cfg.StorageBucket, cfg.StoragePublicBase, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// newRouter mounts the gallery at the root and under /api. Swagger UI is
// left out in production.
func newRouter(cfg *config.Config, galleryHandler *gallery.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if !cfg.IsProduction() {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Group(galleryHandler.Routes)
	r.Route("/api", galleryHandler.Routes)
	return r
}
