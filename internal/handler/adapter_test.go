package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-registry-api/internal/config"
	"github.com/noah-isme/student-registry-api/internal/controller"
	"github.com/noah-isme/student-registry-api/internal/handler"
)

func TestMountPassesRequestToAction(t *testing.T) {
	var received controller.Request
	echo := func(_ context.Context, req controller.Request) (controller.Response, error) {
		received = req
		return controller.Response{StatusCode: fiber.StatusCreated, Body: map[string]string{"ok": "yes"}}, nil
	}

	app := fiber.New()
	handler.Mount(app, "/students", handler.Verbs{Post: echo})

	req := httptest.NewRequest("POST", "/students?classId=2", strings.NewReader(`{"id":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":1}`, string(received.Body))
	classID, ok := received.Param("classId")
	assert.True(t, ok)
	assert.Equal(t, "2", classID)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "yes", body["ok"])
}

func TestMountWritesEmptyBodyForNoContent(t *testing.T) {
	remove := func(context.Context, controller.Request) (controller.Response, error) {
		return controller.Response{StatusCode: fiber.StatusNoContent}, nil
	}

	app := fiber.New()
	handler.Mount(app, "/students", handler.Verbs{Delete: remove})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/students?id=1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestMountSkipsNilVerbs(t *testing.T) {
	list := func(context.Context, controller.Request) (controller.Response, error) {
		return controller.Response{StatusCode: fiber.StatusOK, Body: []string{}}, nil
	}

	app := fiber.New()
	handler.Mount(app, "/students", handler.Verbs{Get: list})

	resp, err := app.Test(httptest.NewRequest("PUT", "/students", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}

func TestErrorHandlerHidesDetailsOutsideDevelopment(t *testing.T) {
	failing := func(context.Context, controller.Request) (controller.Response, error) {
		return controller.Response{}, errors.New("pq: connection reset")
	}

	for env, expected := range map[string]string{
		"production":  "internal server error",
		"development": "pq: connection reset",
	} {
		cfg := config.Config{AppEnv: env}
		app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(cfg, zerolog.New(io.Discard))})
		handler.Mount(app, "/students", handler.Verbs{Get: failing})

		resp, err := app.Test(httptest.NewRequest("GET", "/students", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode, env)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, expected, body["message"], env)
	}
}

func TestErrorHandlerKeepsFiberStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(config.Config{}, zerolog.New(io.Discard))})

	resp, err := app.Test(httptest.NewRequest("GET", "/unknown", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Cannot GET /unknown", body["message"])
}
