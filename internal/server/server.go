// Package server assembles the Fiber application: middleware, product
// routes, health and metrics endpoints.
package server

import (
	"context"
	"strings"
	"time"

	"mercearia/internal/database"
	"mercearia/internal/handlers"
	"mercearia/internal/metrics"
	"mercearia/internal/middleware"
	"mercearia/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Options holds what New needs to build the app.
type Options struct {
	ProductService *services.ProductService
	// DB is pinged by /health; nil when products live in memory.
	DB             *gorm.DB
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	// AccessLog disables the request logger when false.
	AccessLog bool
}

// New creates the Fiber application.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Mercearia API " + Version,
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestContext())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(opts.AllowedOrigins, ","),
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
	}))
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
		app.Get("/metrics", opts.Metrics.Handler())
	}

	// --- Basic endpoints ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Mercearia API",
			"version": Version,
			"status":  "online",
		})
	})
	app.Get("/health", healthCheck(opts.DB))

	// --- API Routes ---
	handlers.NewProductHandler(opts.ProductService).RegisterRoutes(app)

	return app
}

func healthCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":  "healthy",
			"service": "mercearia-api",
			"time":    time.Now().UTC().Format(time.RFC3339),
		}
		if db == nil {
			return c.JSON(status)
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			status["status"] = "unhealthy"
			status["database"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		status["database"] = "connected"
		return c.JSON(status)
	}
}
