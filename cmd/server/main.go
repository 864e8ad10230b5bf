package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"memorial/internal/app"
	"memorial/internal/config"
	"memorial/internal/gateway"
	"memorial/internal/handler"
	"memorial/internal/mailer"
	"memorial/internal/middleware"
	internalRedis "memorial/internal/redis"
	"memorial/internal/repository/postgres"
	"memorial/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, notifications, err := wireServer(db, redisClient, nrApp, cfg)
	if err != nil {
		log.Fatalf("failed to wire server: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	// Let in-flight emails finish before exiting.
	notifications.Wait()

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// notification service whose sends must drain on shutdown.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.NotificationService, error) {
	gatewaySources, err := middleware.ParseCIDRs(cfg.Gateway.AllowedSources)
	if err != nil {
		return nil, nil, err
	}

	// Initialize Redis stores.
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	orderRepo := postgres.NewOrderRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize gateway client and mailer.
	gatewayClient := gateway.NewClient(gateway.Config{
		MerchantID:  cfg.Gateway.MerchantID,
		MerchantKey: cfg.Gateway.MerchantKey,
		Passphrase:  cfg.Gateway.Passphrase,
		ProcessURL:  cfg.Gateway.ProcessURL,
		ReturnURL:   cfg.Gateway.ReturnURL,
		CancelURL:   cfg.Gateway.CancelURL,
		NotifyURL:   cfg.Gateway.NotifyURL,
	})

	var mail service.Mailer = mailer.NewLogMailer()
	if cfg.Mail.Host != "" {
		mail = mailer.NewSMTPMailer(mailer.Config{
			Host:       cfg.Mail.Host,
			Port:       cfg.Mail.Port,
			Username:   cfg.Mail.Username,
			Password:   cfg.Mail.Password,
			From:       cfg.Mail.From,
			RequireTLS: cfg.Mail.RequireTLS,
		})
	} else {
		log.Println("SMTP_HOST not set, emails will be logged only")
	}

	// Initialize services.
	notificationService := service.NewNotificationService(mail, cfg.Mail.SiteName)
	checkoutService := service.NewCheckoutService(orderRepo, gatewayClient, cfg.Checkout.CommissionRate)
	orderService := service.NewOrderService(orderRepo, cacheStore)
	callbackService := service.NewCallbackService(orderRepo, notificationRepo, gatewayClient, notificationService, cacheStore)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, notificationRepo, gatewayClient, notificationService, cfg.Gateway.SubscriptionNotifyURL)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CheckoutHandler:     handler.NewCheckoutHandler(checkoutService),
		OrderHandler:        handler.NewOrderHandler(orderService),
		NotifyHandler:       handler.NewNotifyHandler(callbackService, subscriptionService),
		SubscriptionHandler: handler.NewSubscriptionHandler(subscriptionService),
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		GatewaySources:      gatewaySources,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, notificationService, nil
}
