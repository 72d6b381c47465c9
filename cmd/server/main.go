/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the roster server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (env vars, optional config.env)
  2. Build the root logger
  3. Initialize the SQLite store
  4. Wire the staff manager (store as shifts/requests/events, store
     registered as the persistence receiver)
  5. Configure the HTTP router and auth
  6. Start the availability scheduler
  7. Start the server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler
  4. Close the database connection
  5. Exit

EXAMPLES:
  # Run with file database
  DB_PATH=./data/roster.db ./server

  # Run with in-memory database
  DB_PATH=":memory:" ./server

SEE ALSO:
  - config/config.go: Configuration knobs
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/convivio/roster-engine/api"
	"github.com/convivio/roster-engine/config"
	"github.com/convivio/roster-engine/logging"
	"github.com/convivio/roster-engine/staff"
	"github.com/convivio/roster-engine/store/sqlite"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Wire the staff manager: the store serves every read boundary and
	// is registered as the persistence receiver.
	manager := staff.NewManager(api.ContextActorProvider{}, store, store, store, log)
	manager.AddReceiver(store)

	tokens := api.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	handler := api.NewHandler(store, manager, tokens, log)
	router := api.NewRouter(handler, log)

	// Availability restore job
	scheduler := api.NewAvailabilityScheduler(store, log, cfg.RestoreCron)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Str("env", cfg.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	scheduler.Stop()

	log.Info().Msg("server stopped")
}
