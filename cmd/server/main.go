package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antarakost/service-rental/internal/application"
	"github.com/antarakost/service-rental/internal/config"
	"github.com/antarakost/service-rental/internal/document"
	"github.com/antarakost/service-rental/internal/events"
	"github.com/antarakost/service-rental/internal/handler"
	"github.com/antarakost/service-rental/internal/logger"
	"github.com/antarakost/service-rental/internal/middleware"
	"github.com/antarakost/service-rental/internal/repository"
	"github.com/antarakost/service-rental/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.RentalModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	}

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize repository and document infrastructure
	rentalRepo := repository.NewGormRentalRepository(db)
	templates := document.NewDiskTemplateSource(cfg.Document.TemplateDir)
	engine := document.NewEngine()
	clock := document.SystemClock{}
	numbering := document.NewNumberingService(clock)
	files := storage.NewLocalFileStore(cfg.Document.StorageDir, cfg.Document.StaticBase)

	// Initialize application services
	rentalService := application.NewRentalService(rentalRepo, cfg.Currency, producer, log)
	documentService := application.NewDocumentService(
		rentalRepo,
		templates,
		engine,
		numbering,
		files,
		producer,
		clock,
		cfg.Document.PipelineTimeout,
		log,
	)

	// Start the payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "rental-service"
	paymentConsumer := events.NewPaymentEventConsumer(cfg.Kafka.Brokers, groupID, rentalService, log)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	rentalHandler := handler.NewRentalHandler(rentalService)
	documentHandler := handler.NewDocumentHandler(documentService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Serve generated and uploaded documents
	router.Static(cfg.Document.StaticBase, cfg.Document.StorageDir)

	rentalHandler.RegisterRoutes(&router.RouterGroup)
	documentHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-rental...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-rental stopped")
}
