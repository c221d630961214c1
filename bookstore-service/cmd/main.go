package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/config"
	"bookstore/bookstore-service/internal/app/bookstore/handler"
	"bookstore/bookstore-service/internal/app/bookstore/infrastructure"
	"bookstore/bookstore-service/internal/app/bookstore/infrastructure/messaging"
	"bookstore/bookstore-service/internal/app/bookstore/processor"
	"bookstore/bookstore-service/internal/app/bookstore/repository"
	"bookstore/bookstore-service/internal/app/bookstore/service"
	"bookstore/bookstore-service/internal/app/bookstore/util"
	"bookstore/pkg/logger"
)

const serviceName = "bookstore-service"

func main() {
	// === ИНИЦИАЛИЗАЦИЯ ЛОГГЕРА ===
	logLevel := os.Getenv("LOG_LEVEL")
	logger.Init(serviceName, logLevel)

	if addr := os.Getenv("LOGSTASH_ADDR"); addr != "" {
		if err := logger.InitLogstash(addr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Str("addr", addr).Msg("Logstash unavailable, logging to stdout only")
		}
	}

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// === ХРАНИЛИЩА ===
	// Все данные живут в памяти процесса
	bookRepo := repository.NewBookRepository(repository.DefaultBooks())
	userRepo := repository.NewUserRepository()
	reviewRepo := repository.NewReviewRepository()

	// === REDIS (необязательно) ===
	var bookCache util.BookCache
	if cfg.CacheEnabled() {
		redisCache, err := util.NewRedisBookCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, catalog cache disabled")
		} else {
			defer redisCache.Close()
			bookCache = redisCache
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("Catalog cache enabled")
		}
	}

	// === KAFKA (необязательно) ===
	var publisher infrastructure.MessagePublisher = messaging.NoopPublisher{}
	if cfg.EventsEnabled() {
		kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Review events enabled")
	}

	// === СЕРВИСЫ ===
	jwtManager := util.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	authService := service.NewAuthService(userRepo, jwtManager)
	logger.Info().Dur("token_ttl", jwtManager.GetTokenDuration()).Msg("Session tokens configured")
	catalogService := service.NewCatalogService(bookRepo, bookCache, cfg.Cache.TTL)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if bookCache != nil {
		scheduler := processor.NewCronScheduler(catalogService)
		if err := scheduler.Start(ctx, cfg.Cache.RefreshSchedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start cache warmer")
		}
		defer scheduler.Stop()
	}

	// === HTTP ===
	router := handler.SetupRoutes(handler.Handlers{
		Books:   handler.NewBookHandler(catalogService),
		Auth:    handler.NewAuthHandler(authService),
		Reviews: handler.NewReviewHandler(reviewService),
	}, handler.NewAuthMiddleware(authService), cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("Starting Bookstore Service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Bookstore Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logger.Info().Msg("Bookstore Service stopped gracefully")
}
