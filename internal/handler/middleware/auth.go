package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"car-rental/internal/pkg/jwt"
	"car-rental/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

const ctxActorKey = "actor"

// TokenValidator is what the middleware needs from the jwt service.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
}

func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth validates the bearer token and stores the caller as a
// shared.Actor on the request context. Handlers never read the token
// themselves; the actor is the only identity they see.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		role := shared.Role(claims.Role)
		if !role.IsValid() {
			slog.Warn("Token carries unrecognized role", "role", claims.Role)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxActorKey, shared.Actor{UserID: claims.UserID, Role: role})
		c.Next()
	}
}

// RequireAdmin must be used after RequireAuth().
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return shared.Actor{}, false
	}

	actor, ok := v.(shared.Actor)
	return actor, ok
}
