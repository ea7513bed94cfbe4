package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"photo-picker/internal/attachment"
	"photo-picker/internal/catalog"
	"photo-picker/internal/config"
	"photo-picker/internal/convert"
	"photo-picker/internal/database"
	"photo-picker/internal/export"
	"photo-picker/internal/handlers"
	"photo-picker/internal/indexer"
	"photo-picker/internal/logging"
	"photo-picker/internal/middleware"
	"photo-picker/internal/thumbnail"
	"photo-picker/internal/watch"
)

func main() {
	startTime := time.Now()

	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to open library index: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn("Failed to close library index: %v", err)
		}
	}()

	// Initial scan runs synchronously so the catalog is populated before
	// the first request.
	idx := indexer.New(db, cfg.LibraryDir, cfg.IndexInterval)
	if err := idx.Start(ctx); err != nil {
		logging.Fatal("Failed to index library: %v", err)
	}

	notifier, err := watch.New(cfg.LibraryDir)
	if err != nil {
		logging.Fatal("Failed to watch library: %v", err)
	}
	notifier.Start()

	// The indexer observes changes like any other consumer; its writes go
	// to the database and cache dirs, outside the watched root.
	rescan := notifier.Subscribe(idx.Trigger)
	defer rescan.Unsubscribe()

	ffmpeg := export.NewFFmpeg("")
	if !ffmpeg.Available() {
		logging.Warn("ffmpeg not found, video conversion will be unavailable")
	}

	thumbnail.InitVips()
	thumbs := thumbnail.New(cfg.ThumbnailDir, cfg.ThumbnailsEnabled)

	converter := convert.New(db, ffmpeg, attachment.NewTempAllocator(cfg.ScratchDir))
	cat := catalog.New(db)

	h := handlers.New(db, cat, converter, thumbs, idx, notifier)
	router := h.Router()

	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	var handler http.Handler = router
	if cfg.MetricsEnabled {
		handler = middleware.Metrics(handler)
	}
	handler = middleware.Logger(handler)
	handler = middleware.Compression(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, idx, notifier)

	logging.Info("Listening on :%s (startup took %s)", cfg.Port, time.Since(startTime).Round(time.Millisecond))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, idx *indexer.Indexer, notifier *watch.Notifier) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := notifier.Close(); err != nil {
		logging.Warn("Watcher close error: %v", err)
	}
	idx.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}
	logging.Info("Shutdown complete")
}
