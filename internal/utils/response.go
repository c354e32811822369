package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-registry-api/internal/dto"
)

// SendJSON writes data as the JSON body with the given status.
func SendJSON(c *fiber.Ctx, status int, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(data)
}

// SendError writes a {"message": ...} body with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(dto.ErrorResponse{Message: message})
}
