package http_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/odonto-api/internal/interfaces/http"
	"github.com/jhoicas/odonto-api/pkg/logger"
)

func newLoggedApp(buf *bytes.Buffer) *fiber.App {
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.New(logger.Config{Env: "test", Level: "debug", Out: buf})))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"request_id": apphttp.GetRequestID(c)})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("fallo de infraestructura")
	})
	return app
}

func TestRequestLogger_GeneraRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	reqID := resp.Header.Get("X-Request-ID")
	assert.NotEmpty(t, reqID)
	assert.Contains(t, buf.String(), reqID)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestRequestLogger_RespetaRequestIDEntrante(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
	assert.Contains(t, buf.String(), "abc-123")
}

func TestRequestLogger_RegistraErrorDelHandler(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), "fallo de infraestructura")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
