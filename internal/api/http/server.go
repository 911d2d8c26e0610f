package httpapi

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const serviceName = "event-weather-advisor"

// AppConfig controls the fiber app built by NewApp.
type AppConfig struct {
	// AccessLog receives one line per request. Nil means stdout.
	AccessLog io.Writer
	Timeout   time.Duration
}

// NewApp builds the fiber app with the centralized error handler, global
// middleware, the health endpoint and the API routes.
func NewApp(cfg AppConfig, h *Handlers) *fiber.App {
	if cfg.AccessLog == nil {
		cfg.AccessLog = os.Stdout
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Timeout,
		WriteTimeout:          cfg.Timeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New(fiberlogger.Config{Output: cfg.AccessLog}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	RegisterRoutes(app, h)
	return app
}
