package service

import (
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// accountStore is the subset of the admin user repository the lifecycle
// manager needs.
type accountStore interface {
	List() ([]models.AdminUser, error)
	GetByID(id int) (*models.AdminUser, error)
	Create(user *models.AdminUser) error
	Update(user *models.AdminUser) error
	Delete(id int) error
	CountActiveAdmins() (int, error)
	CountAll() (int, error)
	FindConflicts(username, email string, excludeID int) (bool, bool, error)
}

// AdminAccountService implements admin account lifecycle operations with the
// cross-cutting invariants: uniqueness, last-active-admin protection,
// self-deletion protection, and self-update signaling.
type AdminAccountService struct {
	store accountStore
}

func NewAdminAccountService(store accountStore) *AdminAccountService {
	return &AdminAccountService{store: store}
}

// AccountInput carries the mutable fields for create and update.
type AccountInput struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	IsActive *bool       `json:"isActive"`
}

// UpdateResult is returned by Update. IsUpdatingSelf tells the caller to
// trigger forced re-authentication of its own session.
type UpdateResult struct {
	Account        models.AdminUser `json:"account"`
	IsUpdatingSelf bool             `json:"isUpdatingSelf"`
}

// List returns all accounts. Password hashes are excluded from JSON by the
// model's tag, but they are also blanked here so they never leave the service.
func (s *AdminAccountService) List() ([]models.AdminUser, error) {
	users, err := s.store.List()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// NeedsSetup reports whether zero admin accounts exist.
func (s *AdminAccountService) NeedsSetup() (bool, error) {
	n, err := s.store.CountAll()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Create adds a new account. The duplicate scan here is an optimization;
// the store's uniqueness constraints are the real guarantee and produce
// the same conflict errors when the scan loses the race.
func (s *AdminAccountService) Create(in AccountInput) (*models.AdminUser, error) {
	username, email, err := normalizeIdentity(in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < 6 {
		return nil, utils.Validationf("password", "must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if !role.Valid() {
		return nil, utils.Validationf("role", "must be admin or super_admin")
	}

	if err := s.checkConflicts(username, email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.AdminUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.store.Create(user); err != nil {
		return nil, err
	}
	log.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("admin account created")

	user.PasswordHash = ""
	return user, nil
}

// Update mutates an existing account. An empty password preserves the
// current hash. When the target is the caller's own account the result
// signals IsUpdatingSelf so the client can force re-authentication.
func (s *AdminAccountService) Update(callerID, targetID int, in AccountInput) (*UpdateResult, error) {
	user, err := s.store.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	username, email, err := normalizeIdentity(in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = user.Role
	}
	if !role.Valid() {
		return nil, utils.Validationf("role", "must be admin or super_admin")
	}

	if err := s.checkConflicts(username, email, targetID); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	user.Role = role

	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, utils.Validationf("password", "must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if in.IsActive != nil {
		// Deactivating the only remaining active admin would lock the
		// system out the same way deleting it would.
		if user.IsActive && !*in.IsActive {
			active, err := s.store.CountActiveAdmins()
			if err != nil {
				return nil, err
			}
			if active <= 1 {
				return nil, utils.ErrLastActiveAdmin
			}
		}
		user.IsActive = *in.IsActive
	}

	if err := s.store.Update(user); err != nil {
		return nil, err
	}
	log.Info().Int("user_id", user.ID).Bool("self", callerID == targetID).Msg("admin account updated")

	user.PasswordHash = ""
	return &UpdateResult{Account: *user, IsUpdatingSelf: callerID == targetID}, nil
}

// Delete removes an account, refusing self-deletion and refusing to drop
// the last active admin.
func (s *AdminAccountService) Delete(callerID, targetID int) error {
	if callerID == targetID {
		return utils.ErrSelfDelete
	}

	user, err := s.store.GetByID(targetID)
	if err != nil {
		return err
	}

	if user.IsActive {
		active, err := s.store.CountActiveAdmins()
		if err != nil {
			return err
		}
		if active <= 1 {
			return utils.ErrLastActiveAdmin
		}
	}

	if err := s.store.Delete(targetID); err != nil {
		return err
	}
	log.Info().Int("user_id", targetID).Int("deleted_by", callerID).Msg("admin account deleted")
	return nil
}

// checkConflicts maps the duplicate scan outcome to conflict errors: the
// offending field when one is known, the ambiguous error when both collide.
func (s *AdminAccountService) checkConflicts(username, email string, excludeID int) error {
	usernameTaken, emailTaken, err := s.store.FindConflicts(username, email, excludeID)
	if err != nil {
		return err
	}
	switch {
	case usernameTaken && emailTaken:
		return utils.ErrDuplicateAccount
	case usernameTaken:
		return utils.ErrDuplicateUsername
	case emailTaken:
		return utils.ErrDuplicateEmail
	}
	return nil
}

// normalizeIdentity trims both fields and lowercases the email, then
// validates the normalized values.
func normalizeIdentity(username, email string) (string, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if l := len(username); l < 3 || l > 50 {
		return "", "", utils.Validationf("username", "must be between 3 and 50 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return "", "", utils.Validationf("email", "must be a valid email address")
	}
	return username, email, nil
}
