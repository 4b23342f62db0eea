// Command scalebar-server serves the scalebar HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/scalebar/internal/api"
	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/db"
	"github.com/banshee-data/scalebar/internal/monitoring"
	"github.com/banshee-data/scalebar/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	configPath  = flag.String("config", "", "Path to a scalebar JSON config (defaults built in)")
	dbPath      = flag.String("db", "scalebar.db", "Presets database path, empty to disable presets")
	verbose     = flag.Bool("v", false, "Verbose logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Printf("scalebar-server %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	monitoring.SetVerbose(*verbose)

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var store *db.DB
	if *dbPath != "" {
		store, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
		log.Printf("presets database %s", store.Path())
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              *listen,
		Handler:           newHandler(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := serve(ctx, server); err != nil {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

// newHandler mounts the API and, when a store is configured, its admin
// routes, all behind the request logger.
func newHandler(cfg *config.ScalebarConfig, store *db.DB) http.Handler {
	mux := api.NewServer(cfg, store).ServeMux()
	if store != nil {
		store.AttachAdminRoutes(mux)
	}
	return api.LoggingMiddleware(mux)
}

// serve runs server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, server *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		// Force close the server if graceful shutdown fails
		if err := server.Close(); err != nil {
			return fmt.Errorf("force close: %w", err)
		}
	}
	return nil
}
