package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-registry-api/internal/dto"
	"github.com/noah-isme/student-registry-api/internal/service"
	"github.com/noah-isme/student-registry-api/internal/validation"
)

// StudentController serves the /students collection.
type StudentController struct {
	service service.StudentService
	rules   *validation.Rules
}

// NewStudentController constructs the controller.
func NewStudentController(service service.StudentService, rules *validation.Rules) *StudentController {
	return &StudentController{service: service, rules: rules}
}

// Delete removes the student identified by the id and/or code query parameters.
func (c *StudentController) Delete(ctx context.Context, req Request) (Response, error) {
	rawID, hasID := req.Param("id")
	code, hasCode := req.Param("code")
	if !hasID && !hasCode {
		return fail(fiber.StatusBadRequest, `"id" or "code" is required`), nil
	}

	var lookup dto.StudentLookup
	if hasID {
		id, err := validation.Integer("id", rawID)
		if err != nil {
			return mapError(err)
		}
		lookup.ID = &id
	}
	if hasCode {
		lookup.Code = &code
	}

	if err := c.service.Delete(ctx, lookup); err != nil {
		return mapError(err)
	}

	return respond(fiber.StatusNoContent, nil), nil
}

// Get lists students matching the optional classId, schoolId and score filters.
func (c *StudentController) Get(ctx context.Context, req Request) (Response, error) {
	query, err := c.rules.Filters(req.Query)
	if err != nil {
		return mapError(err)
	}

	students, err := c.service.List(ctx, query)
	if err != nil {
		return mapError(err)
	}

	return respond(fiber.StatusOK, students), nil
}

// Post creates a student after the id and code uniqueness checks.
func (c *StudentController) Post(ctx context.Context, req Request) (Response, error) {
	payload, err := c.rules.Student(req.Body)
	if err != nil {
		return mapError(err)
	}

	created, err := c.service.Create(ctx, payload)
	if err != nil {
		return mapError(err)
	}

	return respond(fiber.StatusCreated, created), nil
}

// Put replaces every mutable field of the student with the payload id.
func (c *StudentController) Put(ctx context.Context, req Request) (Response, error) {
	payload, err := c.rules.Student(req.Body)
	if err != nil {
		return mapError(err)
	}

	updated, err := c.service.Update(ctx, payload)
	if err != nil {
		return mapError(err)
	}

	return respond(fiber.StatusOK, updated), nil
}

// mapError turns rule and business failures into responses. Anything else is a storage failure
// and is returned unchanged.
func mapError(err error) (Response, error) {
	switch {
	case validation.IsValidationError(err):
		return fail(fiber.StatusBadRequest, err.Error()), nil
	case errors.Is(err, service.ErrStudentNotFound):
		return fail(fiber.StatusNotFound, err.Error()), nil
	case errors.Is(err, service.ErrStudentIDInUse),
		errors.Is(err, service.ErrStudentCodeInUse),
		errors.Is(err, service.ErrStudentCodeInUseByOther):
		return fail(fiber.StatusConflict, err.Error()), nil
	default:
		return Response{}, err
	}
}
