package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// JWTMiddleware re-validates the session token on protected API groups.
// The route guard is the enforcement point; this check is defense in depth
// on the handlers it wraps and accepts the session cookie or a bearer
// header.
type JWTMiddleware struct {
	secret []byte
}

func NewJWTMiddleware(secret []byte) *JWTMiddleware {
	return &JWTMiddleware{secret: secret}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing session token")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(m.secret, token)
		if err != nil {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid or expired session")
			c.Abort()
			return
		}

		if !models.Role(claims.Role).Valid() {
			utils.Error(c, 401, "UNAUTHORIZED", "Insufficient role")
			c.Abort()
			return
		}

		setSessionContext(c, claims)
		c.Next()
	}
}

func (m *JWTMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// CallerID returns the authenticated admin's account id from context.
func CallerID(c *gin.Context) int {
	return c.GetInt("user_id")
}
