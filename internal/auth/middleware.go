package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated staff identity decoded from a session
// token.
type Principal struct {
	UserID      string
	Username    string
	Role        string
	DisplayName string
}

// Guard validates bearer tokens on protected routes.
type Guard struct {
	tokens *TokenManager
}

// NewGuard constructs the access guard.
func NewGuard(tokens *TokenManager) *Guard {
	return &Guard{tokens: tokens}
}

// Handle rejects requests without a valid, unexpired bearer token and
// stores the decoded principal for downstream handlers. No DB round-trip:
// the token alone carries the identity.
func (g *Guard) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("Token no proporcionado")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("Token no proporcionado")
	}

	claims, err := g.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("Token inválido o expirado")
	}

	c.Locals(principalKey, &Principal{
		UserID:      claims.Subject,
		Username:    claims.Username,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
