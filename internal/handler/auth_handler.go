package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/portfolio-api/internal/middleware"
	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// setupDisabledMessage is returned by the setup endpoint in every system
// state. First-account creation happens exclusively through the adminctl
// command; no web endpoint may ever create the first account.
const setupDisabledMessage = "Admin setup over the network is disabled. Provision the first account with the adminctl command."

type authService interface {
	Login(identifier, password string) (string, models.Identity, error)
}

type setupStatusService interface {
	NeedsSetup() (bool, error)
}

type AuthHandler struct {
	auth          authService
	accounts      setupStatusService
	limiter       *middleware.FailedLoginRateLimiter
	secureCookies bool
}

func NewAuthHandler(auth authService, accounts setupStatusService, limiter *middleware.FailedLoginRateLimiter, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, limiter: limiter, secureCookies: secureCookies}
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ip := c.ClientIP()
	if !h.limiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many failed login attempts")
		return
	}

	token, identity, err := h.auth.Login(req.Identifier, req.Password)
	if err != nil {
		h.limiter.RecordFailure(ip)
		// One shape for every failure cause.
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	h.setSessionCookie(c, token, int(utils.SessionTTL.Seconds()))
	utils.Success(c, 200, "Login successful", gin.H{
		"user": identity,
	})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	utils.Success(c, 200, "Logged out", nil)
}

// Me returns the identity decoded from the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	utils.Success(c, 200, "OK", gin.H{
		"user": models.Identity{
			ID:       c.GetInt("user_id"),
			Username: c.GetString("username"),
			Email:    c.GetString("email"),
			Role:     models.Role(c.GetString("role")),
		},
	})
}

// SetupStatus reports whether zero admin accounts exist. Unauthenticated
// by design: the admin frontend uses it to show a setup-required state.
func (h *AuthHandler) SetupStatus(c *gin.Context) {
	needsSetup, err := h.accounts.NeedsSetup()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to check setup status")
		return
	}
	utils.Success(c, 200, "OK", gin.H{
		"needsSetup": needsSetup,
	})
}

// Setup is permanently disabled regardless of payload or system state.
func (h *AuthHandler) Setup(c *gin.Context) {
	utils.Error(c, http.StatusForbidden, "SETUP_DISABLED", setupDisabledMessage)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", h.secureCookies, true)
}
