package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/ticket-reminder/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("admin", RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, _, err := tm.GenerateToken("admin", RoleAdmin)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", 5).ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenManager("secret", 5)
		late.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := late.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "hunter2"))
	assert.Error(t, ComparePassword(hash, "hunter3"))
}

func newProtectedApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/admin", NewAuthMiddleware(tm).Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(principal.Subject)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	app := newProtectedApp(tm)

	adminToken, _, err := tm.GenerateToken("admin", RoleAdmin)
	require.NoError(t, err)
	viewerToken, _, err := tm.GenerateToken("viewer", Role("viewer"))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"bad token", "Bearer nope", fiber.StatusUnauthorized},
		{"non admin", "Bearer " + viewerToken, fiber.StatusForbidden},
		{"admin", "Bearer " + adminToken, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
