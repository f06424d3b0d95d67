package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/auth"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/httputil"
)

const ContextClaims = "claims"

type AuthMiddleware struct {
	tokens *auth.JWTManager
}

func NewAuthMiddleware(tokens *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and threads the claims through the
// request context. Every tenant-scoped handler reads the organization id
// from these claims, never from the URL or body.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			httputil.RespondWithError(c, errors.Unauthorized(err))
			c.Abort()
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the authenticated claims, or nil on routes that
// skipped Authenticate.
func ClaimsFromContext(c *gin.Context) *model.TokenClaims {
	value, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, ok := value.(*model.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
