package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"storyforge/internal/config"
	"storyforge/internal/database"
	"storyforge/internal/handler"
	"storyforge/internal/logger"
	"storyforge/internal/middleware"
	"storyforge/internal/repository"
	"storyforge/internal/service"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	encoding := "json"
	if cfg.Env == "development" {
		encoding = "console"
	}
	appLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: encoding,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	zap.ReplaceGlobals(appLogger)

	appLogger.Info("Starting storyforge server",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.ServerPort),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPgxPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	migrator := database.NewMigrator(pool, appLogger)
	if err := migrator.Up(); err != nil {
		appLogger.Fatal("Failed to apply database migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = redisClient.Close() }()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.RedisAddr))
	}
	pingCancel()
	appLogger.Info("Successfully connected to Redis", zap.String("addr", cfg.RedisAddr))

	// Repositories.
	accountRepo := repository.NewPgAccountRepository(pool, appLogger)
	storyRepo := repository.NewPgStoryRepository(pool, appLogger)
	chapterRepo := repository.NewPgChapterRepository(pool, appLogger)
	characterRepo := repository.NewPgCharacterRepository(pool, appLogger)
	actionRepo := repository.NewPgActionRepository(pool, appLogger)
	passageRepo := repository.NewPgPassageRepository(pool, appLogger)
	tokenRepo := repository.NewRedisTokenRepository(redisClient, appLogger)

	// Services.
	authService := service.NewAuthService(accountRepo, tokenRepo, cfg, appLogger)
	ownership := service.NewOwnershipService(storyRepo, chapterRepo, appLogger)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, accountRepo)
	storyEditorHandler := handler.NewStoryEditorHandler(storyRepo, chapterRepo, characterRepo, actionRepo, authService, ownership, appLogger)
	passageHandler := handler.NewPassageHandler(passageRepo, authService, appLogger)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.GinZapLogger(appLogger))
	router.Use(gin.Recovery())

	prom := ginprometheus.NewPrometheus("gin")
	// Collapse path parameters so each route yields one url label.
	prom.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		url := c.Request.URL.Path
		for _, param := range c.Params {
			if param.Key == "id" {
				url = strings.Replace(url, param.Value, ":id", 1)
			}
		}
		return url
	}
	prom.Use(router)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheck)
	router.HEAD("/health", healthCheck)

	authHandler.RegisterRoutes(router)
	storyEditorHandler.RegisterRoutes(router)
	passageHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited gracefully")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
