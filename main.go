package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mercearia/internal/config"
	"mercearia/internal/database"
	"mercearia/internal/logging"
	"mercearia/internal/metrics"
	"mercearia/internal/repositories"
	"mercearia/internal/server"
	"mercearia/internal/services"
	"mercearia/pkg/rabbitmq"

	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, "mercearia-api", cfg.AppEnv)
	slog.SetDefault(logger)

	// --- Initialize Repository ---
	var (
		db          *gorm.DB
		productRepo repositories.ProductRepository
	)
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory product store; data is lost on exit")
		productRepo = repositories.NewMemoryProductRepository()
	} else {
		db, err = database.Open(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close(db)

		// Create the produto table if it does not exist yet
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("database ready", slog.String("driver", cfg.Database.Driver))
		productRepo = repositories.NewGORMProductRepository(db)
	}

	// --- Initialize Services ---
	serviceOpts := []services.Option{services.WithLogger(logger)}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: logger})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		serviceOpts = append(serviceOpts, services.WithEventPublisher(mqClient))
	} else {
		logger.Info("RABBITMQ_URL is not set; product events are disabled")
	}
	productService := services.NewProductService(productRepo, serviceOpts...)

	// --- Initialize Fiber App ---
	app := server.New(server.Options{
		ProductService: productService,
		DB:             db,
		Metrics:        metrics.New(),
		AllowedOrigins: cfg.AllowedOrigins,
		AccessLog:      true,
	})

	// --- Start HTTP Server ---
	logger.Info("starting server", slog.String("port", cfg.AppPort))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	logger.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		logger.Error("error during Fiber shutdown", slog.String("error", err.Error()))
	}

	// Database and RabbitMQ connections are closed by the deferred calls
	logger.Info("server gracefully stopped")
}
