package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-registry-api/internal/service"
	"github.com/noah-isme/student-registry-api/internal/validation"
)

// GetByIDController serves /students/get-by-id.
type GetByIDController struct {
	service service.StudentService
}

// NewGetByIDController constructs the controller.
func NewGetByIDController(service service.StudentService) *GetByIDController {
	return &GetByIDController{service: service}
}

// Get returns the student with the id query parameter.
func (c *GetByIDController) Get(ctx context.Context, req Request) (Response, error) {
	rawID, ok := req.Param("id")
	if !ok {
		return fail(fiber.StatusBadRequest, `"id" is required`), nil
	}

	id, err := validation.Integer("id", rawID)
	if err != nil {
		return mapError(err)
	}

	student, err := c.service.Get(ctx, id)
	if err != nil {
		return mapError(err)
	}

	return respond(fiber.StatusOK, student), nil
}
