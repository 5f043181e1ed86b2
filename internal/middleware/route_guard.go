package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin_session"

// authState is the per-request authentication state derived from the
// session token. It is recomputed on every request; nothing is persisted
// between requests.
type authState int

const (
	stateUnauthenticated authState = iota
	stateNonAdmin
	stateAdmin
)

// RouteGuard is the single edge enforcement point for the admin surface.
// It runs before any handler and decides allow, redirect, or reject per
// path. Any token decode failure is treated exactly like a missing token:
// the guard fails closed.
type RouteGuard struct {
	secret []byte
}

func NewRouteGuard(secret []byte) *RouteGuard {
	return &RouteGuard{secret: secret}
}

// apiPublicPaths are admin API endpoints reachable without a session:
// login itself, logout (clearing a cookie needs no valid token),
// setup-status, and the permanently disabled setup endpoint whose handler
// always rejects.
var apiPublicPaths = map[string]bool{
	"/api/admin/auth/login":   true,
	"/api/admin/auth/logout":  true,
	"/api/admin/setup-status": true,
	"/api/admin/setup":        true,
}

// Handle returns the guard middleware.
func (g *RouteGuard) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		state, claims := g.stateFor(c)

		switch {
		case path == "/admin/login" || path == "/admin/setup":
			// Already-authenticated admins have no business on the login
			// or setup pages.
			if state == stateAdmin {
				c.Redirect(http.StatusFound, "/admin/dashboard")
				c.Abort()
				return
			}

		case strings.HasPrefix(path, "/admin"):
			if state != stateAdmin {
				c.Redirect(http.StatusFound, "/admin/login?callbackUrl="+url.QueryEscape(path))
				c.Abort()
				return
			}

		case strings.HasPrefix(path, "/api/admin"):
			if apiPublicPaths[path] {
				break
			}
			if state != stateAdmin {
				utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin authentication required")
				c.Abort()
				return
			}
		}

		if state == stateAdmin {
			setSessionContext(c, claims)
		}
		c.Next()
	}
}

// stateFor decodes the session cookie into an auth state. Malformed,
// expired, or unsigned tokens are indistinguishable from no token at all.
func (g *RouteGuard) stateFor(c *gin.Context) (authState, *utils.SessionClaims) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return stateUnauthenticated, nil
	}

	claims, err := utils.ValidateJWT(g.secret, token)
	if err != nil {
		return stateUnauthenticated, nil
	}

	switch models.Role(claims.Role) {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return stateAdmin, claims
	}
	return stateNonAdmin, nil
}

// setSessionContext exposes the decoded identity to downstream handlers.
func setSessionContext(c *gin.Context, claims *utils.SessionClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}
