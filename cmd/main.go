package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"dashboard-service/internal/config"
	"dashboard-service/internal/events"
	"dashboard-service/internal/handlers"
	"dashboard-service/internal/middleware"
	"dashboard-service/internal/repository"
	"dashboard-service/internal/services"
	"dashboard-service/internal/sheets"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "release" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize the spreadsheet row store
	store, err := sheets.NewClient(context.Background(), &sheets.Config{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		CredentialsFile: cfg.Sheets.CredentialsFile,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to initialize sheets client: %v", err)
	}
	log.Println("✅ Sheets row store connected")

	// Initialize Redis for rate limit counters (optional)
	redisClient := initRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize NATS audit publisher (optional)
	var eventsPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize NATS publisher, continuing without audit events")
		} else {
			log.Println("✓ Audit events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("⚠ NATS_URL not set, audit events disabled")
	}
	defer eventsPublisher.Close()

	// Initialize repositories
	sheetNames := cfg.Sheets.SheetNames()
	customerRepo := repository.NewCustomerRepository(store, sheetNames.Customers)
	subscriptionRepo := repository.NewSubscriptionRepository(store, sheetNames.Subscriptions)
	scanRepo := repository.NewScanRepository(store, sheetNames.ScanSummary, sheetNames.Violations)
	appConfigRepo := repository.NewAppConfigRepository(store, sheetNames.Config)

	// Initialize services
	tokenService := services.NewTokenService()
	sessionService := services.NewSessionService(tokenService, customerRepo, appConfigRepo, logger)
	legacyService := services.NewLegacyService(customerRepo, cfg.Auth.LegacyTokenTTL(), logger)
	dashboardService := services.NewDashboardService(customerRepo, subscriptionRepo, scanRepo, logger)
	websiteService := services.NewWebsiteService(customerRepo, logger)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, logger)

	// Initialize handlers
	healthHandlers := handlers.NewHealthHandlers()
	sessionHandlers := handlers.NewSessionHandlers(sessionService, eventsPublisher, logger)
	customerHandlers := handlers.NewCustomerHandlers(legacyService, dashboardService, logger)
	websiteHandlers := handlers.NewWebsiteHandlers(legacyService, websiteService, eventsPublisher, logger)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionService, eventsPublisher, logger)

	// Initialize rate limiter for authentication endpoints
	rateLimiter := middleware.NewRateLimiter(redisClient, logger, middleware.RateLimitConfig{
		Requests:       cfg.RateLimit.Requests,
		Window:         cfg.RateLimit.Window(),
		RedisKeyPrefix: "dashboard:ratelimit:",
	})

	// Setup Gin router
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(gin.Recovery())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	// Health check endpoints
	router.GET("/health", healthHandlers.Health)
	router.GET("/ready", healthHandlers.Ready)

	// API routes
	api := router.Group("/api/v1")
	{
		// Dashboard reads (legacy credential forms)
		api.GET("/customer-data", rateLimiter.Middleware(), customerHandlers.GetCustomerData)
		api.GET("/professional-data", rateLimiter.Middleware(), customerHandlers.GetProfessionalData)

		// Monitored website mutations
		websites := api.Group("/websites")
		{
			websites.POST("/add", rateLimiter.Middleware(), websiteHandlers.AddWebsite)
			websites.POST("/remove", rateLimiter.Middleware(), websiteHandlers.RemoveWebsite)
		}

		// Signed session validation
		auth := api.Group("/auth")
		{
			auth.POST("/validate-session", rateLimiter.Middleware(), sessionHandlers.ValidateSession)
		}

		// Billing callbacks (trusted caller)
		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("/cancel", subscriptionHandlers.CancelSubscription)
		}
	}

	// Start server
	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Dashboard service starting on %s", serverAddr)
	log.Printf("📊 Environment: %s", cfg.Server.Mode)
	log.Printf("🗄️  Spreadsheet: %s", cfg.Sheets.SpreadsheetID)

	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initRedis initializes the Redis client used for rate limit counters
func initRedis(cfg *config.Config) *redis.Client {
	if cfg.Redis.Host == "" {
		log.Println("⚠ REDIS_HOST not set, rate limiting uses in-process counters")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis connection failed: %v", err)
		log.Println("🔄 Continuing without Redis (rate limiting falls back to in-process counters)")
		return nil
	}

	log.Println("✅ Redis connected successfully")
	return rdb
}
