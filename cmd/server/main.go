package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/config"
	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/internal/handlers"
	"github.com/magicdayconcierge/booking-backend/internal/middleware"
	"github.com/magicdayconcierge/booking-backend/internal/services"
	"github.com/magicdayconcierge/booking-backend/pkg/email"
	"github.com/magicdayconcierge/booking-backend/pkg/jwt"
	"github.com/magicdayconcierge/booking-backend/pkg/metrics"
	"github.com/magicdayconcierge/booking-backend/pkg/shopify"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Magic Day Concierge booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	blackoutRepo := database.NewBlackoutRepository(db)
	appointmentRepo := database.NewAppointmentRepository(db)
	waitingListRepo := database.NewWaitingListRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	authService := services.NewAdminAuthService(cfg.Auth, jwtService, logger)
	intakeService := services.NewBookingIntakeService(
		appointmentRepo,
		blackoutRepo,
		cfg.Booking.AutoBlackoutThreshold,
		cfg.Booking.ExemptProductType,
		logger,
	)

	var sender email.Sender
	if cfg.Email.Mode == "production" {
		sender = email.NewHTTPSender(email.HTTPConfig{
			APIURL:      cfg.Email.APIURL,
			APIKey:      cfg.Email.APIKey,
			FromAddress: cfg.Email.FromAddress,
		})
	} else {
		sender = email.NewDevSender(logger)
	}
	waitingListService := services.NewWaitingListService(waitingListRepo, sender, logger)

	shopifyClient := shopify.NewClient(shopify.Config{
		StoreDomain:     cfg.Shopify.StoreDomain,
		StorefrontToken: cfg.Shopify.StorefrontToken,
		APIVersion:      cfg.Shopify.APIVersion,
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	blackoutHandler := handlers.NewBlackoutHandler(blackoutRepo, logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, logger)
	webhookHandler := handlers.NewWebhookHandler(intakeService, cfg.Shopify.WebhookSecret, logger)
	calendarHandler := handlers.NewCalendarHandler(blackoutRepo, cfg.Booking, logger)
	waitingListHandler := handlers.NewWaitingListHandler(waitingListService, logger)
	shopifyHandler := handlers.NewShopifyHandler(shopifyClient, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		// Same route serves the public full list and, with page params
		// plus a session, the admin portal listing.
		v1.GET("/blackout-dates", middleware.OptionalAuthMiddleware(jwtService), blackoutHandler.List)

		v1.POST("/checkout/hook", webhookHandler.CheckoutHook)
		v1.GET("/calendar", calendarHandler.Month)
		v1.POST("/waiting-list", waitingListHandler.Create)

		v1.POST("/cart", shopifyHandler.CreateCart)
		v1.GET("/products", shopifyHandler.GetProducts)
		v1.GET("/products/:handle", shopifyHandler.GetProduct)
		v1.GET("/store-info", shopifyHandler.GetStoreInfo)

		admin := v1.Group("", middleware.AuthMiddleware(jwtService))
		{
			admin.POST("/blackout-dates", blackoutHandler.Create)
			admin.DELETE("/blackout-dates/:id", blackoutHandler.Delete)
			admin.GET("/appointments", appointmentHandler.List)
			admin.GET("/waiting-list", waitingListHandler.List)
			admin.DELETE("/waiting-list/:id", waitingListHandler.Delete)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler reports liveness and database reachability
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
