package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-registry-api/internal/controller"
)

// Action is a controller method bound to one HTTP verb.
type Action func(ctx context.Context, req controller.Request) (controller.Response, error)

// Verbs is the static verb table of one path. Nil entries are not routed.
type Verbs struct {
	Get    Action
	Post   Action
	Put    Action
	Delete Action
}

func (v Verbs) routes() []struct {
	method string
	action Action
} {
	return []struct {
		method string
		action Action
	}{
		{fiber.MethodGet, v.Get},
		{fiber.MethodPost, v.Post},
		{fiber.MethodPut, v.Put},
		{fiber.MethodDelete, v.Delete},
	}
}

// Mount binds every action of verbs to path on router.
func Mount(router fiber.Router, path string, verbs Verbs) {
	for _, route := range verbs.routes() {
		if route.action == nil {
			continue
		}
		router.Add(route.method, path, adapt(route.action))
	}
}

// adapt translates a fiber request into a controller request and writes the controller
// response back. Errors are left to the application error handler.
func adapt(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := controller.Request{
			Body:  append([]byte(nil), c.Body()...),
			Query: c.Queries(),
		}

		resp, err := action(c.UserContext(), req)
		if err != nil {
			return err
		}

		if resp.Body == nil {
			c.Status(resp.StatusCode)
			return nil
		}

		return c.Status(resp.StatusCode).JSON(resp.Body)
	}
}
