// Package main provides the main entry point for the Pastane B2B pricing and ordering service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/pastane-b2b/app/handlers"
	"github.com/amirphl/pastane-b2b/app/router"
	"github.com/amirphl/pastane-b2b/app/services"
	businessflow "github.com/amirphl/pastane-b2b/business_flow"
	"github.com/amirphl/pastane-b2b/config"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	server    *fiber.App
	logOutput io.Writer
	closers   []io.Closer
	stopFuncs []func()
}

func main() {
	log.Println("Starting Pastane B2B application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			log.Printf("Error closing resource: %v", err)
		}
	}

	log.Println("Server stopped")
}

// initializeLogging points the standard logger at stdout, a rotating file, or both
func initializeLogging(cfg config.LoggingConfig) (io.Writer, io.Closer) {
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lmicroseconds)

	if cfg.Output == "stdout" {
		return os.Stdout, nil
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  false,
	}

	var out io.Writer = rotating
	if cfg.Output == "both" {
		out = io.MultiWriter(os.Stdout, rotating)
	}
	log.SetOutput(out)
	return out, rotating
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	gormLevel := gormlogger.Warn
	if logLevel == "debug" {
		gormLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(log.Default(), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeQuoteService builds the quote token signer, or nil when quotes are disabled
func initializeQuoteService(cfg config.QuoteConfig) (services.QuoteTokenService, error) {
	if !cfg.Enabled {
		log.Println("Quote tokens disabled")
		return nil, nil
	}
	return services.NewQuoteTokenService(
		cfg.TTL,
		cfg.Issuer,
		cfg.Audience,
		cfg.UseRSAKeys,
		cfg.PrivateKey,
		cfg.PublicKey,
		cfg.SecretKey,
	)
}

// initializeApplication wires repositories, the pricing engine, flows, and handlers
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	logOutput, logCloser := initializeLogging(cfg.Logging)

	app := &Application{
		config:    cfg,
		logOutput: logOutput,
	}
	if logCloser != nil {
		app.closers = append(app.closers, logCloser)
	}

	db, err := initializeDatabase(cfg.Database, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if rc != nil {
		app.closers = append(app.closers, rc)
		app.stopFuncs = append(app.stopFuncs, startCacheHealthMonitor(context.Background(), rc, cfg.Cache.HealthCheckInterval))
	} else {
		log.Println("Cache disabled; order submissions are not deduplicated across instances")
	}

	quotes, err := initializeQuoteService(cfg.Quote)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize quote token service: %w", err)
	}

	// Repositories
	firmRepo := repository.NewFirmRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	profileRepo := repository.NewCustomerProfileRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	overrideRepo := repository.NewPriceOverrideRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Pricing engine
	engineLogger := log.New(logOutput, "[pricing] ", log.LstdFlags|log.LUTC)
	engine := businessflow.NewPricingEngine(
		businessflow.NewCatalogAccessor(productRepo),
		businessflow.NewProfileDiscountResolver(firmRepo),
		businessflow.NewRuleMatcher(ruleRepo, engineLogger),
		businessflow.NewOverrideResolver(overrideRepo, engineLogger),
		engineLogger,
	)

	// Business flows
	flowLogger := log.New(logOutput, "[flow] ", log.LstdFlags|log.LUTC)
	vatRate := cfg.Pricing.VATRatePercent

	quoteFlow := businessflow.NewQuoteFlow(firmRepo, engine, quotes, vatRate, flowLogger)
	priceListFlow := businessflow.NewPriceListFlow(
		firmRepo,
		productRepo,
		engine,
		vatRate,
		cfg.Pricing.DefaultLocale,
		cfg.Pricing.FallbackLocales,
		flowLogger,
	)
	orderFlow := businessflow.NewOrderFlow(
		firmRepo,
		orderRepo,
		auditRepo,
		engine,
		quotes,
		rc,
		db,
		vatRate,
		cfg.Pricing.OrderLockTTL,
		cfg.Cache.RedisPrefix,
		flowLogger,
	)
	ruleFlow := businessflow.NewPricingRuleFlow(ruleRepo, categoryRepo, productRepo, firmRepo, auditRepo, db)
	overrideFlow := businessflow.NewPriceOverrideFlow(overrideRepo, productRepo, firmRepo, auditRepo, db)
	profileFlow := businessflow.NewCustomerProfileFlow(profileRepo, firmRepo, auditRepo, db)

	// Handlers
	h := router.Handlers{
		Pricing:      handlers.NewPricingHandler(quoteFlow, priceListFlow),
		Order:        handlers.NewOrderHandler(orderFlow),
		AdminPricing: handlers.NewAdminPricingHandler(ruleFlow, overrideFlow, profileFlow),
	}

	var accessLog io.Writer
	if cfg.Logging.EnableAccessLog {
		accessLog = logOutput
	}

	r := router.NewFiberRouter(cfg, h, accessLog)
	app.router = r
	app.server = r.GetApp()

	log.Printf("Application initialized (env=%s, version=%s, vat=%s%%)",
		cfg.Deployment.Environment, cfg.Deployment.Version, vatRate.String())

	return app, nil
}
