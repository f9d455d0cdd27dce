package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	newApp := func() *fiber.App {
		app := fiber.New()
		app.Get("/protected", JwtMiddleware, func(ctx *fiber.Ctx) error {
			return ctx.JSON(fiber.Map{
				"user_id":   ctx.Locals("user_id"),
				"module_id": ctx.Locals("module_id"),
				"is_admin":  ctx.Locals("is_admin"),
			})
		})
		app.Get("/admin", JwtMiddleware, AdminMiddleware, func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusOK)
		})
		return app
	}

	t.Run("missing header is rejected", func(t *testing.T) {
		resp, err := newApp().Test(httptest.NewRequest("GET", "/protected", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token with wrong secret is rejected", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"user_id": "u"})
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := newApp().Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes and claims land in locals", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id":   "user-1",
			"module_id": "module-1",
			"is_admin":  false,
		})
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := newApp().Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("non admin is forbidden on admin routes", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id":  "user-1",
			"is_admin": false,
		})
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := newApp().Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin claim grants access", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id":  "user-1",
			"is_admin": true,
		})
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := newApp().Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
