package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/api/handlers"
	"github.com/jafarshop/cartapi/internal/api/middleware"
	"github.com/jafarshop/cartapi/internal/config"
	"github.com/jafarshop/cartapi/internal/pricing"
	"github.com/jafarshop/cartapi/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc *service.CartService, engine *pricing.Engine, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Storefront Cart API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/cart",
				"POST /v1/cart/items",
				"PUT /v1/cart/items/:id",
				"DELETE /v1/cart/items/:id",
				"DELETE /v1/cart",
				"POST /v1/cart/discount",
				"DELETE /v1/cart/discount",
				"GET /v1/cart/summary",
				"GET /v1/discounts",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Cart routes are scoped to an anonymous shopper session
		cartRoutes := v1.Group("")
		cartRoutes.Use(middleware.SessionMiddleware(logger))
		{
			cartRoutes.GET("/cart", handlers.HandleGetCart(svc, logger))
			cartRoutes.POST("/cart/items", handlers.HandleAddItem(svc, logger))
			cartRoutes.PUT("/cart/items/:id", handlers.HandleSetQuantity(svc, logger))
			cartRoutes.DELETE("/cart/items/:id", handlers.HandleRemoveItem(svc, logger))
			cartRoutes.DELETE("/cart", handlers.HandleClearCart(svc, logger))
			cartRoutes.POST("/cart/discount", handlers.HandleSubmitCode(svc, logger))
			cartRoutes.DELETE("/cart/discount", handlers.HandleClearCode(svc, logger))
			cartRoutes.GET("/cart/summary", handlers.HandleGetSummary(svc, logger))
		}

		// The discount table is static and session-independent
		v1.GET("/discounts", handlers.HandleListDiscounts(engine, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
