/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the influencer campaign analytics server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize dataset store (memory or SQLite)
  3. Create API handler with default analysis assumptions
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path; empty keeps datasets in memory only
  -baseline  Organic-revenue fraction assumed for incremental ROAS

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with datasets held in memory
  ./server

  # Run with datasets persisted across restarts
  ./server -db="./data/campaigns.db"

  # Assume 30% of tracked revenue is organic
  ./server -baseline=0.30

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Persistent dataset store
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gitraun/healthkart-influencer-dashboard/analytics"
	"github.com/gitraun/healthkart-influencer-dashboard/api"
	"github.com/gitraun/healthkart-influencer-dashboard/store"
	"github.com/gitraun/healthkart-influencer-dashboard/store/memory"
	"github.com/gitraun/healthkart-influencer-dashboard/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path (empty: in-memory only)")
	baseline := flag.Float64("baseline", 0.20, "organic-revenue fraction for incremental ROAS")
	flag.Parse()

	// Initialize store
	var st store.DatasetStore
	if *dbPath == "" {
		st = memory.New()
	} else {
		var err error
		st, err = sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}
	defer st.Close()

	// Analysis assumptions
	cfg := analytics.DefaultConfig()
	cfg.BaselineFraction = decimal.NewFromFloat(*baseline)
	cfg.HasBaseline = true

	// Initialize handler and router
	handler := api.NewHandler(st, cfg)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
