package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-registry-api/internal/config"
	"github.com/noah-isme/student-registry-api/internal/utils"
)

// ErrorHandler renders failures that escaped the controllers. Storage errors become a 500 whose
// detail is only exposed in development.
func ErrorHandler(cfg config.Config, logger zerolog.Logger) fiber.ErrorHandler {
	base := logger.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		}

		requestLogger(base, c).Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")

		message := "internal server error"
		if cfg.IsDevelopment() {
			message = err.Error()
		}

		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
