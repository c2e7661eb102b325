// @title PDF Study Agent API
// @version 1.0
// @description Upload a document, read its summary, take a generated quiz and get it scored.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pdf-study-agent/internal/adapter"
	"pdf-study-agent/internal/adapter/extractor"
	"pdf-study-agent/internal/adapter/llm"
	"pdf-study-agent/internal/cache"
	"pdf-study-agent/internal/config"
	"pdf-study-agent/internal/handler"
	"pdf-study-agent/internal/logger"
	"pdf-study-agent/internal/middleware"
	"pdf-study-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

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

	if cfg.Session.TokenSecret == "" {
		appLogger.Fatal("session.token_secret is required (SESSION_TOKEN_SECRET)")
	}

	ctx := context.Background()

	// Initialize Redis Client
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize the language model
	generator, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	defer generator.Close()
	appLogger.Info("LLM client initialized", zap.String("model", generator.Name()))

	// Initialize services
	sessionStore := service.NewSessionStore(cacheAdapter, cfg.Session.TTL)
	documentExtractor := extractor.NewDocumentExtractor(cfg.Document.MaxUploadBytes)
	studyService := service.NewStudyService(sessionStore, documentExtractor, generator, cfg.Document.MinTextLength)

	tokenService, err := service.NewTokenService(cfg.Session.TokenSecret, cfg.Session.TokenTTL)
	if err != nil {
		appLogger.Fatal("Failed to create TokenService", zap.Error(err))
	}

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(studyService, tokenService, cfg.Document.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(cacheAdapter, generator.Name())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(middleware.CORS())
	app.Use(recover.New())

	handler.RegisterRoutes(app, sessionHandler, healthHandler, tokenService)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
