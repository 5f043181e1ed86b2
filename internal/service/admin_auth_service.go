package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// credentialStore is the subset of the admin user repository the verifier needs.
type credentialStore interface {
	GetByIdentifier(identifier string) (*models.AdminUser, error)
	UpdateLastLogin(id int) error
}

// AdminAuthService verifies credentials and mints session tokens.
type AdminAuthService struct {
	store  credentialStore
	secret []byte
}

func NewAdminAuthService(store credentialStore, secret []byte) *AdminAuthService {
	return &AdminAuthService{store: store, secret: secret}
}

// Login verifies identifier (username or email) and password and returns a
// signed session token plus the verified identity. Every failure mode
// (unknown identifier, inactive account, wrong password) collapses to
// utils.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AdminAuthService) Login(identifier, password string) (string, models.Identity, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.store.GetByIdentifier(identifier)
	if err != nil {
		if !errors.Is(err, utils.ErrAccountNotFound) {
			log.Error().Err(err).Msg("credential lookup failed")
		}
		return "", models.Identity{}, utils.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Int("user_id", user.ID).Msg("login attempt on inactive account")
		return "", models.Identity{}, utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.Identity{}, utils.ErrInvalidCredentials
	}

	// Best-effort last-login stamp. Races with the response on purpose;
	// a failed write must never fail the login.
	go func(id int) {
		if err := s.store.UpdateLastLogin(id); err != nil {
			log.Warn().Err(err).Int("user_id", id).Msg("failed to update last_login")
		}
	}(user.ID)

	identity := user.Identity()
	token, err := utils.GenerateJWT(s.secret, identity.ID, identity.Username, identity.Email, string(identity.Role))
	if err != nil {
		log.Error().Err(err).Msg("failed to sign session token")
		return "", models.Identity{}, err
	}

	log.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("login successful")
	return token, identity, nil
}
