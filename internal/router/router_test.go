package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/student-registry-api/internal/config"
	"github.com/noah-isme/student-registry-api/internal/controller"
	"github.com/noah-isme/student-registry-api/internal/handler"
	"github.com/noah-isme/student-registry-api/internal/middleware"
	"github.com/noah-isme/student-registry-api/internal/models"
	"github.com/noah-isme/student-registry-api/internal/repository"
	"github.com/noah-isme/student-registry-api/internal/router"
	"github.com/noah-isme/student-registry-api/internal/service"
	"github.com/noah-isme/student-registry-api/internal/validation"
)

func setupApp(t *testing.T, env string) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)

	logger := zerolog.New(io.Discard)
	cfg := config.Config{AppName: "Test", AppEnv: env, APIPrefix: "/api"}

	svc := service.NewStudentService(repository.NewStudentRepository(db), nil, logger)
	rules := validation.New(validator.New(validator.WithRequiredStructEnabled()))

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(cfg, logger)})
	middleware.Register(app, middleware.Config{Logger: &logger, APIPrefix: cfg.APIPrefix})
	router.Register(app, cfg, router.Dependencies{
		StudentController: controller.NewStudentController(svc, rules),
		GetByIDController: controller.NewGetByIDController(svc),
		Database:          sqlDB,
	})

	return app, db
}

func send(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestStudentLifecycle(t *testing.T) {
	app, _ := setupApp(t, "test")

	student := map[string]interface{}{"id": 1, "code": "12345678901", "schoolId": 1, "classId": 1, "score": 0}

	resp := send(t, app, http.MethodPost, "/api/students", student)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decode(t, resp, &created)
	require.Equal(t, map[string]interface{}{"id": 1.0, "code": "12345678901", "schoolId": 1.0, "classId": 1.0, "score": 0.0}, created)

	duplicate := map[string]interface{}{"id": 2, "code": "12345678901", "schoolId": 1, "classId": 1}
	resp = send(t, app, http.MethodPost, "/api/students", duplicate)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict map[string]string
	decode(t, resp, &conflict)
	require.Equal(t, map[string]string{"message": "code is already in use"}, conflict)

	resp = send(t, app, http.MethodGet, "/api/students?schoolId=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	decode(t, resp, &list)
	require.Len(t, list, 1)
	require.Equal(t, 1.0, list[0]["id"])

	resp = send(t, app, http.MethodGet, "/api/students/get-by-id?id=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched map[string]interface{}
	decode(t, resp, &fetched)
	require.Equal(t, created, fetched)
	require.NotContains(t, fetched, "name")
	require.NotContains(t, fetched, "email")

	resp = send(t, app, http.MethodDelete, "/api/students?id=1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Empty(t, raw)

	resp = send(t, app, http.MethodGet, "/api/students/get-by-id?id=1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var missing map[string]string
	decode(t, resp, &missing)
	require.Equal(t, "student not found", missing["message"])
}

func TestStudentUpdateFlow(t *testing.T) {
	app, _ := setupApp(t, "test")

	first := map[string]interface{}{"id": 1, "code": "12345678901", "name": "Aluno 1", "email": "email@domain.com", "schoolId": 1, "classId": 1, "score": 5}
	second := map[string]interface{}{"id": 2, "code": "12345678902", "schoolId": 1, "classId": 1}

	resp := send(t, app, http.MethodPut, "/api/students", first)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Equal(t, http.StatusCreated, send(t, app, http.MethodPost, "/api/students", first).StatusCode)
	require.Equal(t, http.StatusCreated, send(t, app, http.MethodPost, "/api/students", second).StatusCode)

	resp = send(t, app, http.MethodPut, "/api/students", first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unchanged map[string]interface{}
	decode(t, resp, &unchanged)
	require.Equal(t, "Aluno 1", unchanged["name"])

	taken := map[string]interface{}{"id": 1, "code": "12345678902", "schoolId": 1, "classId": 1}
	resp = send(t, app, http.MethodPut, "/api/students", taken)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict map[string]string
	decode(t, resp, &conflict)
	require.Equal(t, "code is already in use by another student", conflict["message"])

	cleared := map[string]interface{}{"id": 1, "code": "12345678901", "schoolId": 3, "classId": 4}
	resp = send(t, app, http.MethodPut, "/api/students", cleared)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]interface{}
	decode(t, resp, &updated)
	require.Equal(t, map[string]interface{}{"id": 1.0, "code": "12345678901", "schoolId": 3.0, "classId": 4.0}, updated)
}

func TestStudentRequestValidation(t *testing.T) {
	app, _ := setupApp(t, "test")

	cases := []struct {
		method  string
		path    string
		payload interface{}
		message string
	}{
		{http.MethodGet, "/api/students?id=4", nil, `"id" is not allowed`},
		{http.MethodGet, "/api/students?score=abc", nil, `"score" must be a number`},
		{http.MethodDelete, "/api/students", nil, `"id" or "code" is required`},
		{http.MethodDelete, "/api/students?id=abc", nil, `"id" must be an integer`},
		{http.MethodGet, "/api/students/get-by-id", nil, `"id" is required`},
		{http.MethodPost, "/api/students", map[string]interface{}{"id": 1, "code": "1234567890", "schoolId": 1, "classId": 1}, `"code" length must be 11 characters long`},
		{http.MethodPost, "/api/students", map[string]interface{}{"id": 1, "code": "12345678901", "schoolId": -1, "classId": 1}, `"schoolId" must be a positive number`},
	}

	for _, tc := range cases {
		resp := send(t, app, tc.method, tc.path, tc.payload)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.path)
		var body map[string]string
		decode(t, resp, &body)
		require.Equal(t, tc.message, body["message"], tc.path)
	}
}

func TestDeleteUnknownStudent(t *testing.T) {
	app, _ := setupApp(t, "test")

	require.Equal(t, http.StatusNotFound, send(t, app, http.MethodDelete, "/api/students?id=9", nil).StatusCode)
	require.Equal(t, http.StatusNotFound, send(t, app, http.MethodDelete, "/api/students?code=12345678901", nil).StatusCode)
}

func TestStorageFailureIsInternalError(t *testing.T) {
	app, db := setupApp(t, "production")
	require.NoError(t, db.Migrator().DropTable(&models.Student{}))

	resp := send(t, app, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	require.Equal(t, "internal server error", body["message"])

	devApp, devDB := setupApp(t, "development")
	require.NoError(t, devDB.Migrator().DropTable(&models.Student{}))

	resp = send(t, devApp, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	decode(t, resp, &body)
	require.Contains(t, body["message"], "no such table")
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := setupApp(t, "test")

	resp := send(t, app, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(middleware.HeaderCorrelationID))
	var health handler.HealthResponse
	decode(t, resp, &health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "Test", health.Service)

	resp = send(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "http_requests_total")
}

func TestUnsupportedMethod(t *testing.T) {
	app, _ := setupApp(t, "test")

	resp := send(t, app, http.MethodPatch, "/api/students", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
