package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payrollportal/internal/model"
	"payrollportal/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))
	})
}

func TestRequireSession(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	token := sessions.Create(model.Account{OwnerID: "12345678", DisplayName: "Ana", Role: model.RoleEmployee})

	app := fiber.New()
	app.Use(RequireSession(sessions, "session_token"))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		acc := AccountFromCtx(c)
		require.NotNil(t, acc)
		return c.SendString(acc.OwnerID)
	})

	t.Run("valid session passes and resolves the account", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "12345678", buf.String())
	})

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bogus token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "bogus"})
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireAdmin(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	adminToken := sessions.Create(model.Account{OwnerID: "0000", Role: model.RoleAdmin})
	employeeToken := sessions.Create(model.Account{OwnerID: "12345678", Role: model.RoleEmployee})

	app := fiber.New()
	app.Use(RequireSession(sessions, "session_token"))
	app.Use(RequireAdmin())
	app.Get("/admin-only", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin-only", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: adminToken})
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin-only", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: employeeToken})
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
