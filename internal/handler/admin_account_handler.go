package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/halcyonlabs/portfolio-api/internal/middleware"
	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/service"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

type accountService interface {
	List() ([]models.AdminUser, error)
	Create(in service.AccountInput) (*models.AdminUser, error)
	Update(callerID, targetID int, in service.AccountInput) (*service.UpdateResult, error)
	Delete(callerID, targetID int) error
}

// AdminAccountHandler exposes admin account lifecycle operations. The route
// guard and JWT middleware have already established the caller is an
// authenticated admin; the handlers additionally consult the decoded
// identity for the self-targeting invariants.
type AdminAccountHandler struct {
	accounts accountService
}

func NewAdminAccountHandler(accounts accountService) *AdminAccountHandler {
	return &AdminAccountHandler{accounts: accounts}
}

func (h *AdminAccountHandler) List(c *gin.Context) {
	users, err := h.accounts.List()
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, 200, "OK", gin.H{"accounts": users})
}

func (h *AdminAccountHandler) Create(c *gin.Context) {
	var in service.AccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.accounts.Create(in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, 201, "Account created", gin.H{"account": user})
}

func (h *AdminAccountHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid account id")
		return
	}

	var in service.AccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.accounts.Update(middleware.CallerID(c), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, 200, "Account updated", result)
}

func (h *AdminAccountHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid account id")
		return
	}

	if err := h.accounts.Delete(middleware.CallerID(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, 200, "Account deleted", nil)
}

// writeError maps service errors to the response envelope. Validation and
// conflict failures are caller-correctable; policy denials get specific
// messages; anything else is logged and reported generically.
func (h *AdminAccountHandler) writeError(c *gin.Context, err error) {
	var vErr *utils.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.Error(c, 400, "VALIDATION_ERROR", vErr.Error())
	case errors.Is(err, utils.ErrDuplicateUsername):
		utils.Error(c, 400, "DUPLICATE_USERNAME", "An account with this username already exists")
	case errors.Is(err, utils.ErrDuplicateEmail):
		utils.Error(c, 400, "DUPLICATE_EMAIL", "An account with this email already exists")
	case errors.Is(err, utils.ErrDuplicateAccount):
		utils.Error(c, 400, "DUPLICATE_ACCOUNT", "An account with this username or email already exists")
	case errors.Is(err, utils.ErrSelfDelete):
		utils.Error(c, 400, "SELF_DELETE", "Cannot delete your own account")
	case errors.Is(err, utils.ErrLastActiveAdmin):
		utils.Error(c, 400, "LAST_ACTIVE_ADMIN", "Cannot remove the last active admin account")
	case errors.Is(err, utils.ErrAccountNotFound):
		utils.Error(c, 404, "ACCOUNT_NOT_FOUND", "Account not found")
	default:
		log.Error().Err(err).Msg("account operation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}
