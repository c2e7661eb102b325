package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS_PreflightAllowsSessionMethods(t *testing.T) {
	app := fiber.New()
	app.Use(CORS())
	app.Delete("/api/session", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
			req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
			req.Header.Set(fiber.HeaderAccessControlRequestMethod, method)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
			allowed := resp.Header.Get(fiber.HeaderAccessControlAllowMethods)
			assert.Contains(t, strings.Split(allowed, ","), method)
		})
	}
}
