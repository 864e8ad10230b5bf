package app

import (
	"net"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"memorial/internal/handler"
	"memorial/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CheckoutHandler     *handler.CheckoutHandler
	OrderHandler        *handler.OrderHandler
	NotifyHandler       *handler.NotifyHandler
	SubscriptionHandler *handler.SubscriptionHandler
	RedisClient         *redis.Client // nil disables Idempotency-Key replay
	NewRelicApp         *newrelic.Application
	GatewaySources      []*net.IPNet // empty allows notifications from any source
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}
	router.Use(middleware.NoticeErrors())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	idempotent := []gin.HandlerFunc{}
	if deps.RedisClient != nil {
		idempotent = append(idempotent, middleware.IdempotencyMiddleware(deps.RedisClient))
	}
	fromGateway := middleware.SourceAllowlist(deps.GatewaySources)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Checkout routes.
		v1.POST("/checkout", append(idempotent, deps.CheckoutHandler.Checkout)...)

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.GET("/:id", deps.OrderHandler.GetOrder)
		}

		// Payment notification routes.
		payments := v1.Group("/payments")
		{
			payments.POST("/notify", fromGateway, deps.NotifyHandler.OrderNotification)
		}

		// Subscription routes.
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", append(idempotent, deps.SubscriptionHandler.CreateSubscription)...)
			subscriptions.POST("/notify", fromGateway, deps.NotifyHandler.SubscriptionNotification)
			subscriptions.GET("/:id", deps.SubscriptionHandler.GetSubscription)
		}
	}

	return router
}
