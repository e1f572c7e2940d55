package httptransport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todolist-server-go/internal/domain/auth"
)

// AccessHeader carries the access token on requests and responses.
const AccessHeader = "access"

const bearerPrefix = "Bearer "

const principalKey = "auth.principal"

// AccessFilter validates the access token when one is presented. Requests
// without the header (or without the Bearer prefix) continue
// unauthenticated; routes that need a principal reject them via
// RequireAuth. A presented token that fails validation aborts with 401,
// so a stale token never silently degrades into an anonymous request.
func AccessFilter(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(AccessHeader)
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.Next()
			return
		}

		principal, err := svc.Authenticate(strings.TrimPrefix(raw, bearerPrefix))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				RespondError(c, http.StatusUnauthorized, "access token expired", nil)
			case errors.Is(err, auth.ErrCategoryMismatch):
				RespondError(c, http.StatusUnauthorized, "invalid token category", nil)
			default:
				RespondError(c, http.StatusUnauthorized, "invalid access token", nil)
			}
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAuth rejects requests that reached a protected route without an
// established principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFrom(c); !ok {
			RespondError(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFrom extracts the authenticated principal installed by
// AccessFilter.
func PrincipalFrom(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*auth.Principal)
	return principal, ok
}
