package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cafepos/internal/logger"
	"cafepos/internal/middleware"
	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	users := repositories.NewMemoryUserRepository()
	auth := services.NewAuthService(users, "middleware_secret", time.Hour, logger.Nop())
	for _, u := range []models.User{
		{Username: "quanly", Email: "quanly@cafe.vn", Password: "secret123", Role: models.RoleManager},
		{Username: "phucvu", Email: "phucvu@cafe.vn", Password: "secret123", Role: models.RoleWaiter},
	} {
		u := u
		require.NoError(t, auth.RegisterUser(&u))
	}

	app := fiber.New()
	protected := app.Group("", middleware.AuthRequired(auth, logger.Nop()))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "role": c.Locals("role")})
	})
	protected.Get("/reports", middleware.RequireRole(models.RoleAdmin, models.RoleManager), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, auth
}

func request(t *testing.T, app *fiber.App, path, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthRequired(t *testing.T) {
	app, auth := setupApp(t)
	token, err := auth.LoginUser("phucvu", "secret123")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/me", "Token "+token))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/me", "Bearer not-a-jwt"))
	assert.Equal(t, http.StatusOK, request(t, app, "/me", "Bearer "+token))
}

func TestRequireRole(t *testing.T) {
	app, auth := setupApp(t)
	manager, err := auth.LoginUser("quanly", "secret123")
	require.NoError(t, err)
	waiter, err := auth.LoginUser("phucvu", "secret123")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(t, app, "/reports", "Bearer "+manager))
	assert.Equal(t, http.StatusForbidden, request(t, app, "/reports", "Bearer "+waiter))
}
