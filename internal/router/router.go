package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-registry-api/internal/config"
	"github.com/noah-isme/student-registry-api/internal/controller"
	"github.com/noah-isme/student-registry-api/internal/handler"
	"github.com/noah-isme/student-registry-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentController *controller.StudentController
	GetByIDController *controller.GetByIDController
	Database          handler.Pinger
	RateLimiter       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group(cfg.APIPrefix, func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Database))

	if deps.RateLimiter != nil {
		api.Use("/students", deps.RateLimiter)
	}

	if deps.GetByIDController != nil {
		handler.Mount(api, "/students/get-by-id", handler.Verbs{
			Get: deps.GetByIDController.Get,
		})
	}

	if deps.StudentController != nil {
		handler.Mount(api, "/students", handler.Verbs{
			Get:    deps.StudentController.Get,
			Post:   deps.StudentController.Post,
			Put:    deps.StudentController.Put,
			Delete: deps.StudentController.Delete,
		})
	}
}
