package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
	"github.com/simp-lee/soundmint/internal/token"
)

const (
	userIDContextKey   = "user_id"
	userRoleContextKey = "user_role"
	tokenContextKey    = "bearer_token"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// Auth parses an optional "Authorization: Bearer" header. Requests without a
// token pass through anonymously; a malformed or expired token is rejected
// with 401 so clients can drop the stale session.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "invalid authorization header", nil))
			c.Abort()
			return
		}

		raw = strings.TrimSpace(raw)
		claims, err := parser.Parse(raw)
		if err != nil {
			pkg.Error(c, err)
			c.Abort()
			return
		}
		id, err := claims.UserID()
		if err != nil {
			pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "invalid token", err))
			c.Abort()
			return
		}

		c.Set(userIDContextKey, id)
		c.Set(userRoleContextKey, claims.Role)
		c.Set(tokenContextKey, raw)
		c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "authentication required", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry one of roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "authentication required", nil))
			c.Abort()
			return
		}
		role := UserRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		pkg.Error(c, domain.ErrForbidden)
		c.Abort()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// UserRole returns the authenticated user's role, or "" for anonymous requests.
func UserRole(c *gin.Context) domain.Role {
	if v, ok := c.Get(userRoleContextKey); ok {
		if r, ok := v.(domain.Role); ok {
			return r
		}
	}
	return ""
}

// BearerToken returns the verified raw token of the request, or "".
func BearerToken(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}
