package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"
)

const serviceName = "bookstore-service"

// Handlers собирает обработчики для SetupRoutes
type Handlers struct {
	Books   *BookHandler
	Auth    *AuthHandler
	Reviews *ReviewHandler
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Panic превращается в обычный JSON ответ 500
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("request_id", c.GetString("request_id")).
			Msg("Recovered from panic")
		writeError(c, http.StatusInternalServerError, "Server error")
	}))

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Каталог и чтение отзывов доступны без токена
	books := api.Group("/books")
	{
		books.GET("", h.Books.GetAllBooks)
		books.GET("/isbn/:isbn", h.Books.GetBookByISBN)
		books.GET("/author/:author", h.Books.GetBooksByAuthor)
		books.GET("/title/:title", h.Books.GetBooksByTitle)
		books.GET("/:isbn/reviews", h.Reviews.GetReviewsByBook)
		books.POST("/:isbn/reviews", authMiddleware.Authenticate(), h.Reviews.UpsertReview)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	reviews := api.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.DELETE("/:reviewId", h.Reviews.DeleteReview)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader},
		MaxAge:        5 * time.Minute,
	}

	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
