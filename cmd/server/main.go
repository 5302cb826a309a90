/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the vacation self-service server. Handles
  configuration, dependency assembly, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present), parse flags with env fallbacks
  2. Initialize SQLite store
  3. Assemble ledger, catalog, lifecycle service, holiday calendar
  4. Seed the default policy catalog on first run
  5. Start server with graceful shutdown

CONFIGURATION:
  -port        HTTP server port         (env PORT, default 8080)
  -db          SQLite database path     (env DB_PATH, default vacation.db)
               Use ":memory:" for an in-memory database
  -jwt-secret  HS256 token secret       (env JWT_SECRET, required)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  JWT_SECRET=dev ./server -db="./data/vacation.db"

  # Run with in-memory database
  JWT_SECRET=dev ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/andesmind/vacation-engine/api"
	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
	"github.com/andesmind/vacation-engine/store/sqlite"
)

func main() {
	// .env keeps local dev config out of the shell; ignore if absent.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "vacation.db"), "SQLite database path")
	jwtSecret := flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "HS256 token secret")
	flag.Parse()

	if *jwtSecret == "" {
		log.Fatal("JWT_SECRET (or -jwt-secret) is required")
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Assemble the domain
	ldg := ledger.New(store)
	catalog := leave.NewCatalog(store)
	calendar := leave.NewStoreCalendar(store)
	if err := calendar.Reload(ctx); err != nil {
		log.Fatalf("Failed to load holiday calendar: %v", err)
	}

	service := leave.NewService(store, store, catalog, ldg, nil, calendar)

	if err := seedPolicies(ctx, catalog); err != nil {
		log.Fatalf("Failed to seed policies: %v", err)
	}

	handler := api.NewHandler(service, catalog, ldg, store, store, store, calendar)
	router := api.NewRouter(handler, api.NewTokenAuth(*jwtSecret))

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedPolicies installs the default catalog on first run. An existing
// catalog, of any composition, is left alone.
func seedPolicies(ctx context.Context, catalog *leave.Catalog) error {
	existing, err := catalog.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	maxVacation := decimal.NewFromInt(15)
	now := time.Now().UTC()

	defaults := []leave.Policy{
		{
			ID:                 "vacation-standard",
			Name:               "Annual Vacation",
			Type:               leave.PolicyVacation,
			DaysAllocated:      decimal.NewFromInt(25),
			RequiresApproval:   true,
			AdvanceNoticeDays:  14,
			MaxConsecutiveDays: &maxVacation,
			Active:             true,
			CreatedAt:          now,
		},
		{
			ID:                "sick-standard",
			Name:              "Sick Leave",
			Type:              leave.PolicySick,
			DaysAllocated:     decimal.NewFromInt(10),
			RequiresApproval:  false,
			AdvanceNoticeDays: 0,
			Active:            true,
			CreatedAt:         now,
		},
		{
			ID:                "personal-standard",
			Name:              "Personal Leave",
			Type:              leave.PolicyPersonal,
			DaysAllocated:     decimal.NewFromInt(5),
			RequiresApproval:  true,
			AdvanceNoticeDays: 3,
			Active:            true,
			CreatedAt:         now,
		},
	}

	for i := range defaults {
		if err := catalog.Save(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d default policies", len(defaults))
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
