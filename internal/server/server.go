package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/metrics"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// Deps are the process-wide collaborators the HTTP app is built from.
// Publisher, Metrics and Gatherer may be nil.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Log       *logrus.Logger
	Publisher services.EventPublisher
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// NewApp wires repositories, services and handlers into a fiber app.
func NewApp(deps Deps) *fiber.App {
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	userRepo := repositories.NewGORMUserRepository(deps.DB)

	productService := services.NewProductService(productRepo, deps.Publisher, deps.Metrics, deps.Log)
	authService := services.NewAuthService(userRepo, deps.Config.JWT.Secret, deps.Config.JWT.TTL, deps.Log)

	productHandler := handlers.NewProductHandler(productService, deps.Log)
	authHandler := handlers.NewAuthHandler(authService, deps.Log)

	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: deps.Log.Out}))

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := database.Ping(ctx, deps.DB); err != nil {
			deps.Log.WithError(err).Warn("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, middleware.AuthRequired(authService))

	return app
}

// Run serves app on addr until a value arrives on stop or the listener
// fails, then shuts the app down. Listen errors are returned to the caller.
func Run(app *fiber.App, addr string, stop <-chan os.Signal, log *logrus.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.WithField("port", addr).Info("starting server")
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down server")
	}

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}
