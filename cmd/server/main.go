package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cartorio-digital/siged/internal/adapter/cache"
	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/handlers"
	"github.com/cartorio-digital/siged/internal/adapter/http/fiber/middleware"
	"github.com/cartorio-digital/siged/internal/adapter/queue"
	"github.com/cartorio-digital/siged/internal/adapter/storage/postgres"
	"github.com/cartorio-digital/siged/internal/adapter/vault"
	wsAdapter "github.com/cartorio-digital/siged/internal/adapter/websocket"
	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/observability/telemetry"
	"github.com/cartorio-digital/siged/internal/service/auth"
	"github.com/cartorio-digital/siged/internal/service/catalog"
	"github.com/cartorio-digital/siged/internal/service/email"
	"github.com/cartorio-digital/siged/internal/service/health"
	"github.com/cartorio-digital/siged/internal/service/notification"
	"github.com/cartorio-digital/siged/internal/service/order"
	"github.com/cartorio-digital/siged/internal/service/payment"
	"github.com/cartorio-digital/siged/internal/service/storage"
	"github.com/cartorio-digital/siged/internal/service/whatsapp"
	"github.com/cartorio-digital/siged/pkg/config"
)

const (
	serviceName    = "siged-api"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting SIGED",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger = tuneLogger(logger, cfg.Logging)

	// 3. Resolve Secrets from Vault (optional)
	if cfg.Vault.Enabled {
		if err := resolveSecrets(cfg); err != nil {
			logger.Fatal("Failed to resolve secrets from Vault", zap.Error(err))
		}
		logger.Info("Secrets resolved from Vault", zap.String("address", cfg.Vault.Address))
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.Jaeger.Endpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, cfg.Database.LogQueries, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache (Redis, in-memory fallback for local dev)
	appCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue (NATS or RabbitMQ)
	messageQueue, err := queue.New(cfg.Queue.Driver, cfg.Queue.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	serviceRepo := postgres.NewServiceRepository(db, logger)
	orderRepo := postgres.NewOrderRepository(db, logger)
	paymentRepo := postgres.NewPaymentRepository(db, logger)

	// 9. Initialize Services (Business Logic Layer)
	jwtService := auth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
		appCache,
		logger,
	)
	authService := auth.NewService(userRepo, jwtService, logger)
	rbacService := auth.NewRBACService(logger)

	var oauthService *auth.OAuth2Service
	if cfg.OAuth.Google.ClientID != "" {
		oauthService = auth.NewOAuth2Service(auth.OAuth2Config{
			GoogleClientID:     cfg.OAuth.Google.ClientID,
			GoogleClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectBaseURL:    cfg.OAuth.Google.RedirectURL,
		}, userRepo, jwtService, logger)
	}

	catalogTTL := cfg.Cache.CatalogTTL
	if catalogTTL == 0 {
		catalogTTL = 10 * time.Minute
	}
	catalogService := catalog.NewService(serviceRepo, appCache, catalogTTL, logger)
	if err := catalog.Seed(context.Background(), serviceRepo, logger); err != nil {
		logger.Warn("Catalog seed failed", zap.Error(err))
	}

	orderService := order.NewService(orderRepo, userRepo, serviceRepo, messageQueue, logger)

	paymentService, err := payment.NewService(&payment.Config{
		DefaultCurrency:     cfg.Payment.Currency,
		WebhookURL:          cfg.Payment.WebhookURL,
		StripeSecretKey:     cfg.Payment.Stripe.SecretKey,
		StripeWebhookSecret: cfg.Payment.Stripe.WebhookSecret,
		PagSeguroEmail:      cfg.Payment.PagSeguro.Email,
		PagSeguroToken:      cfg.Payment.PagSeguro.Token,
		PagSeguroSandbox:    cfg.Payment.PagSeguro.Sandbox,
	}, paymentRepo, orderService, logger)
	if err != nil {
		logger.Fatal("Failed to initialize payment service", zap.Error(err))
	}

	storageService := storage.NewService(&storage.Config{
		BaseURL: cfg.Storage.BaseURL,
		APIKey:  cfg.Storage.APIKey,
		Bucket:  cfg.Storage.Bucket,
		URLTTL:  cfg.Storage.URLTTL,
	}, logger)

	// 10. Initialize Notification Channels
	var emailNotifier notification.EmailNotifier
	if cfg.Notification.Email.Provider != "" {
		emailService, err := email.NewService(&email.Config{
			Provider:       cfg.Notification.Email.Provider,
			FromEmail:      cfg.Notification.Email.From,
			FromName:       cfg.Notification.Email.FromName,
			SendGridAPIKey: cfg.Notification.Email.APIKey,
			SMTPHost:       cfg.Notification.Email.SMTPHost,
			SMTPPort:       cfg.Notification.Email.SMTPPort,
			SMTPUsername:   cfg.Notification.Email.SMTPUsername,
			SMTPPassword:   cfg.Notification.Email.SMTPPassword,
			SMTPUseTLS:     cfg.Notification.Email.SMTPUseTLS,
			BaseURL:        cfg.Notification.BaseURL,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize email service", zap.Error(err))
		}
		emailNotifier = emailService
	} else {
		logger.Warn("Email notifications disabled: no provider configured")
	}

	var whatsappNotifier notification.WhatsAppNotifier
	if cfg.Notification.WhatsApp.Provider != "" {
		whatsappService, err := whatsapp.NewService(whatsapp.Config{
			Provider:   cfg.Notification.WhatsApp.Provider,
			AccountSID: cfg.Notification.WhatsApp.AccountSID,
			AuthToken:  cfg.Notification.WhatsApp.AuthToken,
			FromPhone:  cfg.Notification.WhatsApp.FromPhone,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize WhatsApp service", zap.Error(err))
		}
		whatsappNotifier = whatsappService
	} else {
		logger.Warn("WhatsApp notifications disabled: no provider configured")
	}

	dispatcher := notification.NewDispatcher(messageQueue, orderRepo, userRepo, emailNotifier, whatsappNotifier, logger)
	if err := dispatcher.Start(); err != nil {
		logger.Fatal("Failed to start notification dispatcher", zap.Error(err))
	}

	// 11. Initialize WebSocket Hub (real-time order updates)
	wsHub := wsAdapter.NewHub(logger)
	if err := wsHub.SubscribeOrderEvents(messageQueue); err != nil {
		logger.Fatal("Failed to subscribe hub to order events", zap.Error(err))
	}
	go wsHub.Run()

	// 12. Initialize Health Checks
	healthService := health.NewService(&health.Config{
		Version:  serviceVersion,
		DB:       sqlDB,
		Cache:    appCache,
		QueueURL: cfg.Queue.URL,
	}, logger)

	// 13. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/api/v1")

	// Auth routes (public)
	authHandler := handlers.NewAuthHandler(authService, oauthService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)
	v1.Get("/auth/google", authHandler.GoogleAuthURL)
	v1.Get("/auth/google/callback", authHandler.GoogleCallback)

	// Service catalog routes (public: prospects browse before signing up)
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	v1.Get("/services", catalogHandler.List)
	v1.Get("/services/:id", catalogHandler.Get)

	// Payment webhooks (public, authenticated by gateway signature)
	paymentHandler := handlers.NewPaymentHandler(paymentService, orderService, logger)
	v1.Post("/payments/webhook/:provider", paymentHandler.Webhook)

	// Protected routes
	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/auth/me", authHandler.Me)

	// Order routes
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	protected.Post("/orders", orderHandler.Create)
	protected.Get("/orders", orderHandler.List)
	protected.Get("/orders/:id", orderHandler.Get)
	protected.Post("/orders/:id/quote", middleware.StaffRequired(), orderHandler.SubmitQuote)
	protected.Post("/orders/:id/assign", middleware.RoleRequired(domain.UserRoleAdmin), orderHandler.AssignAnalyst)
	protected.Post("/orders/:id/cancel", orderHandler.Cancel)
	protected.Post("/orders/:id/complete", middleware.StaffRequired(), orderHandler.Complete)
	protected.Post("/orders/:id/messages", orderHandler.SendMessage)
	protected.Get("/orders/:id/messages", orderHandler.ListMessages)

	// Payment routes
	protected.Post("/orders/:id/checkout", paymentHandler.CreateIntent)
	protected.Get("/orders/:id/payments", paymentHandler.ListOrderPayments)

	// File upload routes
	storageHandler := handlers.NewStorageHandler(storageService, logger)
	protected.Post("/uploads/presign", storageHandler.Presign)

	// User routes
	userHandler := handlers.NewUserHandler(userRepo, logger)
	protected.Get("/analysts", middleware.StaffRequired(), userHandler.ListAnalysts)
	protected.Patch("/users/me", userHandler.UpdateProfile)

	admin := protected.Group("", middleware.PermissionRequired(rbacService, "users", "manage"))
	admin.Get("/admin/users", userHandler.AdminListUsers)
	admin.Patch("/admin/users/:id/role", userHandler.AdminUpdateRole)

	// WebSocket routes
	app.Use("/ws", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/updates", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(string)
		role, _ := c.Locals("user_role").(domain.UserRole)
		wsHub.AddClient(c, userID, role)
	}))

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// tuneLogger rebuilds the logger with the configured level and encoding.
func tuneLogger(base *zap.Logger, cfg config.LoggingConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return base
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Sampling.Enabled {
		zapCfg.Sampling = &zap.SamplingConfig{
			Initial:    cfg.Sampling.Initial,
			Thereafter: cfg.Sampling.Thereafter,
		}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return base
	}
	return logger
}

// resolveSecrets overrides sensitive config values with their Vault versions.
// Missing Vault entries keep whatever the environment provided.
func resolveSecrets(cfg *config.Config) error {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		return err
	}

	if url, err := sm.GetDatabaseCredentials(); err == nil && url != "" {
		cfg.Database.URL = url
	}
	if secret, err := sm.GetJWTSecret(); err == nil && secret != "" {
		cfg.JWT.Secret = secret
	}
	if key, err := sm.GetStripeSecretKey(); err == nil && key != "" {
		cfg.Payment.Stripe.SecretKey = key
	}
	if token, err := sm.GetPagSeguroToken(); err == nil && token != "" {
		cfg.Payment.PagSeguro.Token = token
	}
	return nil
}
