package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"booksphere/controllers"
	"booksphere/database"
	"booksphere/logger"
	"booksphere/repository"
	"booksphere/routes"
	"booksphere/services"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.Initialize(cfg.Env)
	defer log.Sync()

	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	bookRepo := repository.NewBookRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)
	feedbackRepo := repository.NewFeedbackRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)
	cartRepo := repository.NewCartRepository(redisClient, cfg.CartTTL)

	// Services
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	catalogService := services.NewCatalogService(bookRepo)
	orderService := services.NewOrderService(orderRepo, bookRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo)

	if cfg.Env != "production" {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authService.SeedUsers(seedCtx); err != nil {
			log.Warn("Failed to seed fixture users", zap.Error(err))
		}
		cancel()
	}

	// Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(log))

	routes.Register(router, routes.Controllers{
		Auth:     controllers.NewAuthController(authService, cartRepo),
		Books:    controllers.NewBookController(catalogService),
		Cart:     controllers.NewCartController(cartRepo, catalogService, orderService),
		Orders:   controllers.NewOrderController(orderService),
		Feedback: controllers.NewFeedbackController(feedbackService),
	}, tokenService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}
