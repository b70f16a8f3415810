package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/stocktracker/config"
	_ "github.com/epeers/stocktracker/docs"
	"github.com/epeers/stocktracker/internal/alphavantage"
	"github.com/epeers/stocktracker/internal/cache"
	"github.com/epeers/stocktracker/internal/database"
	"github.com/epeers/stocktracker/internal/handlers"
	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/middleware"
	"github.com/epeers/stocktracker/internal/repository"
	"github.com/epeers/stocktracker/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Stock Tracker API
// @version 1.0
// @description Transaction ledger and CSV import for a B3 stock portfolio.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	policy, err := ledger.ParseClosePolicy(cfg.ClosePolicy)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Initialize repositories
	ledgerRepo := repository.NewLedgerRepository(db.Pool)
	quoteCacheRepo := repository.NewQuoteCacheRepository(db.Pool)

	// Quotes are optional; without a key only cached quotes are served
	var provider services.QuoteProvider
	if cfg.AVKey != "" {
		provider = alphavantage.NewClient(cfg.AVKey)
	} else {
		log.Warn("AV_KEY not set, live quotes disabled")
	}

	// Initialize services
	memCache := cache.NewMemoryCache(cfg.QuoteTTL)
	pricingSvc := services.NewPricingService(memCache, quoteCacheRepo, provider, services.PricingOptions{
		Workers: cfg.QuoteWorkers,
		TTL:     cfg.QuoteTTL,
		Suffix:  cfg.QuoteSuffix,
	})
	portfolioSvc := services.NewPortfolioService(ledgerRepo, pricingSvc)
	ledgerSvc := services.NewLedgerService(ledgerRepo, ledger.Processor{Policy: policy}, nil)

	// Initialize handlers
	portfolioHandler := handlers.NewPortfolioHandler(portfolioSvc)
	transactionHandler := handlers.NewTransactionHandler(ledgerSvc)
	importHandler := handlers.NewImportHandler(ledgerSvc, cfg.ImportMaxBytes)
	stockHandler := handlers.NewStockHandler(ledgerSvc)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.MaxMultipartMemory = cfg.ImportMaxBytes

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router, portfolioHandler, transactionHandler, importHandler, stockHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s (close policy %s)", cfg.Port, policy)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
