package main

import (
	"os"
	"time"

	"storefront/config"
	"storefront/internal/delivery"
	"storefront/internal/middleware"
	"storefront/internal/payments"
	"storefront/internal/redeem"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Storefront Service...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established, migrations applied.")

	// --- Dependency Injection ---
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	contactRepo := repository.NewPostgresContactRepository(database, logger)

	codeGenerator := redeem.NewGenerator()
	processor := payments.NewSimulatedProcessor(cfg.PaymentApprovalRate, time.Duration(cfg.PaymentDelayMs)*time.Millisecond, logger)

	orderUseCase := usecase.NewOrderUseCase(orderRepo, codeGenerator, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, logger)
	contactUseCase := usecase.NewContactUseCase(contactRepo, logger)
	logger.Info("Use cases initialized.")

	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	contactHandler := delivery.NewContactHandler(contactUseCase, logger)
	paymentHandler := delivery.NewPaymentHandler(processor, logger)

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	productHandler.RegisterPublicRoutes(router)
	contactHandler.RegisterPublicRoutes(router)

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, logger))
	orderHandler.RegisterRoutes(protected)
	paymentHandler.RegisterRoutes(protected)
	productHandler.RegisterProtectedRoutes(protected)
	contactHandler.RegisterProtectedRoutes(protected)
	logger.Info("Routes registered.")

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}
