// @title LearnFlow Content API
// @version 1.0
// @description HTTP surface for the LearnFlow content-generation service.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learnflow/internal/adapter"
	"learnflow/internal/cache"
	"learnflow/internal/client"
	"learnflow/internal/config"
	"learnflow/internal/handler"
	"learnflow/internal/logger"
	"learnflow/internal/middleware"
	"learnflow/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Initialize the worker client
	workerHTTPClient := &http.Client{Timeout: cfg.Worker.Timeout}
	notifier := adapter.NewLogNotifier(appLogger)
	workerClient := client.New(cfg.Worker.URL, workerHTTPClient, notifier, appLogger)
	appLogger.Info("Worker client initialized", zap.String("worker_url", cfg.Worker.URL))

	// Initialize Redis-backed explore cache. The cache is optional; the
	// service falls back to direct fetches when Redis is not configured.
	var exploreCache service.ExploreCacheService
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		appLogger.Info("Successfully connected to Redis")
		cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
		exploreCache = service.NewExploreCacheService(cacheAdapter, cfg.Cache.ExploreTTL)
		appLogger.Info("ExploreCacheService initialized")
	} else {
		appLogger.Warn("Redis not configured, explore caching disabled")
	}

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	contentService := service.NewContentService(workerClient, exploreCache, rng)
	appLogger.Info("ContentService initialized")

	// Initialize handlers
	contentHandler := handler.NewContentHandler(contentService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	// Add request logging middleware
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")
	apiGroup.Post("/explore", contentHandler.GetExploreContent)
	apiGroup.Post("/practice", contentHandler.GetPracticeQuestion)
	apiGroup.Post("/exam", contentHandler.GetExamQuestions)
	apiGroup.Post("/chat", contentHandler.Chat)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
