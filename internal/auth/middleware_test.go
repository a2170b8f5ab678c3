package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/contact-service/internal/api/http"
	"github.com/spec-kit/contact-service/internal/auth"
	"github.com/spec-kit/contact-service/internal/observability"
)

func newGuardedApp(t *testing.T, guard *auth.Guard) *fiber.App {
	t.Helper()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/protected", guard.Handle, func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		require.True(t, ok, "guard should always store the principal")
		return c.JSON(fiber.Map{"success": true, "username": principal.Username})
	})
	return app
}

func TestGuard(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	token, _, err := tm.Issue("user-1", "admin", "admin", "Ana Admin")
	require.NoError(t, err)

	expiredTM := auth.NewTokenManager("test-secret", -time.Minute)
	expiredToken, _, err := expiredTM.Issue("user-1", "admin", "admin", "Ana Admin")
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "no header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc123", expectedStatus: http.StatusUnauthorized},
		{name: "tampered token", header: "Bearer " + token[:len(token)-2] + "xx", expectedStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expiredToken, expectedStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, expectedStatus: http.StatusOK},
	}

	guard := auth.NewGuard(tm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newGuardedApp(t, guard)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
