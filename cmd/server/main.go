/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the period engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (file + PERIOD_* environment)
  3. Build zap logger
  4. Initialize SQLite store
  5. Start the run scheduler if scheduler.enabled
  6. Create API handler and router
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to a YAML config file (default: search ./, ./configs,
           /etc/period-engine for period-engine.yaml)
  -port    HTTP server port, overrides server.port
  -db      SQLite database path, overrides database.path
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/periods.db"
  PERIOD_PERIOD_DEFAULT_WAIT=2m0d ./server -port=3000

SEE ALSO:
  - config/config.go: Configuration keys and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/period-engine/api"
	"github.com/warp/period-engine/config"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "period-engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "", "path to config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	v, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		v.Set("server.port", *port)
	}
	if *dbPath != "" {
		v.Set("database.path", *dbPath)
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	defaultWait, err := cfg.Period.Wait()
	if err != nil {
		return err
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, logger, defaultWait)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	if cfg.Scheduler.Enabled {
		jobs, err := runJobs(cfg, defaultWait)
		if err != nil {
			return err
		}
		scheduler := api.NewRunScheduler(store, logger, jobs)
		if err := scheduler.Start(cfg.Scheduler.Cron); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("database", cfg.Database.Path),
			zap.String("default_wait", defaultWait.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func runJobs(cfg *config.Config, defaultWait period.WaitPeriod) ([]api.RunJob, error) {
	jobs := make([]api.RunJob, 0, len(cfg.Scheduler.Jobs))
	for _, jc := range cfg.Scheduler.Jobs {
		t, err := period.ParseType(jc.PeriodType)
		if err != nil {
			return nil, err
		}
		wait := defaultWait
		if jc.Wait != "" {
			if wait, err = period.ParseWaitPeriod(jc.Wait); err != nil {
				return nil, err
			}
		}
		jobs = append(jobs, api.RunJob{Dataset: jc.Dataset, Type: t, Wait: wait})
	}
	return jobs, nil
}
