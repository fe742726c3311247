package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/dto/response"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
)

const (
	sessionKey = "session"

	// GrantHeader carries a one-shot authorization grant for privileged
	// actions when the request body has no room for it.
	GrantHeader = "X-Authorization-Grant"
)

// SessionResolver maps a bearer token to its live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware requires a valid session token and places the session in
// the gin context.
func AuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		sess, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(sessionKey, *sess)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the session when a valid token is sent
// and lets the request through otherwise.
func OptionalAuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if sess, err := resolver.Resolve(c.Request.Context(), token); err == nil {
			c.Set(sessionKey, *sess)
		}
		c.Next()
	}
}

// RequireMode rejects sessions that are not in one of the given modes.
func RequireMode(modes ...enum.AccessMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, m := range modes {
			if sess.Mode == m {
				c.Next()
				return
			}
		}

		response.Error(c, apperror.NewForbiddenError("Acesso restrito ao gestor"))
		c.Abort()
	}
}

// GetSession returns the session placed by AuthMiddleware.
func GetSession(c *gin.Context) (session.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return session.Session{}, false
	}
	sess, ok := value.(session.Session)
	return sess, ok
}

// SetSession stores sess on the context. Handlers use it after a login
// changes the caller's session.
func SetSession(c *gin.Context, sess session.Session) {
	c.Set(sessionKey, sess)
}
