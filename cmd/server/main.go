/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the work-pattern resolution service. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load PeopleHR credentials from the environment
  3. Initialize the SQLite capture store
  4. Create the webhook handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: workpattern.db)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  PEOPLEHR_API_KEY                  (required) upstream API key
  PEOPLEHR_EMPLOYEE_DETAIL_URL      (optional) endpoint override
  PEOPLEHR_WORKPATTERN_DETAIL_URL   (optional) endpoint override
  PEOPLEHR_WORKPATTERN_ID_FILTER    (optional) comma-separated pattern
                                    ids; read per request, so it can be
                                    changed without a restart

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the capture store
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: The webhook itself
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

	"github.com/warp/workpattern-engine/api"
	"github.com/warp/workpattern-engine/peoplehr"
	"github.com/warp/workpattern-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "workpattern.db", "SQLite database path")
	flag.Parse()

	// Upstream config
	cfg, err := peoplehr.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load PeopleHR config: %v", err)
	}
	log.Printf("PeopleHR API key loaded (%s)", peoplehr.MaskKey(cfg.APIKey))

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, peoplehr.NewClient(cfg))
	router := api.NewRouter(handler)

	// Create server. The write timeout covers the two sequential 30s
	// upstream calls in the worst case.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d (%s)", *port, api.Version)
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
