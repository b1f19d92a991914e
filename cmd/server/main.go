package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-backend/internal/cache"
	"loan-backend/internal/config"
	"loan-backend/internal/database"
	"loan-backend/internal/db"
	h "loan-backend/internal/http"
	"loan-backend/internal/handlers"
	"loan-backend/internal/health"
	"loan-backend/internal/logger"
	"loan-backend/internal/middleware"
	"loan-backend/internal/repositories"
	"loan-backend/internal/services"
	"loan-backend/internal/storage"
	"loan-backend/migrations"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	customerFile := flag.String("customer-file", "", "Customer seed file, local path or s3:// URL (overrides config)")
	loanFile := flag.String("loan-file", "", "Loan seed file, local path or s3:// URL (overrides config)")
	skipIngestion := flag.Bool("skip-ingestion", false, "Do not load seed spreadsheets on startup")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *customerFile != "" {
		cfg.Ingestion.CustomerFile = *customerFile
	}
	if *loanFile != "" {
		cfg.Ingestion.LoanFile = *loanFile
	}
	if *skipIngestion {
		cfg.Ingestion.Enabled = false
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("[Server] %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// Run database migrations
	logger.Info("[DB] Running database migrations...")
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.NewMigrator(pool, migrations.FS).RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis is optional; without it loan views are read straight from Postgres
	var viewCache *cache.Cache
	if cfg.Redis.Enabled {
		viewCache, err = cache.Connect(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("[Redis] Cache unavailable: %v (loan views will not be cached)", err)
		} else {
			logger.Info("[Redis] Cache connected successfully")
		}
		defer viewCache.Close()
	}

	// Repositories
	customerRepo := repositories.NewCustomerRepository(pool)
	loanRepo := repositories.NewLoanRepository(pool)

	// Services
	customerService := services.NewCustomerService(customerRepo)
	loanService := services.NewLoanService(customerRepo, loanRepo, viewCache)
	ingestionService := services.NewIngestionService(customerRepo, loanRepo, storage.NewSeedFetcher(cfg))

	// Handlers
	customerHandler := handlers.NewCustomerHandler(customerService)
	loanHandler := handlers.NewLoanHandler(loanService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool, viewCache))

	router := h.NewRouter(customerHandler, loanHandler, healthHandler)
	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.RequestLogging(corsMiddleware(router)))

	if cfg.Ingestion.Enabled {
		go runIngestion(ctx, ingestionService, cfg)
	} else {
		logger.Info("[Ingestion] Seed ingestion disabled")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("[Server] Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("[Server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("[Server] Stopped")
	return nil
}

// runIngestion loads the seed spreadsheets in the background so the API is
// available while large files are processed.
func runIngestion(ctx context.Context, svc *services.IngestionService, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(ctx, cfg.IngestionTimeout())
	defer cancel()

	start := time.Now()
	logger.Info(ctx, "[Ingestion] Loading %s and %s", cfg.Ingestion.CustomerFile, cfg.Ingestion.LoanFile)

	results, err := svc.Run(ctx, cfg.Ingestion.CustomerFile, cfg.Ingestion.LoanFile)
	if err != nil {
		logger.Error(ctx, "[Ingestion] Stopped after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return
	}

	for _, result := range results {
		logger.Info(ctx, "[Ingestion] %s: %d succeeded, %d failed", result.Source, len(result.Succeeded), len(result.Failed))
	}
	logger.Info(ctx, "[Ingestion] Completed in %s", time.Since(start).Round(time.Millisecond))
}
