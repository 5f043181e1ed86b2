package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

const adminUserColumns = `id, username, email, password_hash, role, is_active, last_login, created_at, updated_at`

type AdminUserRepository struct {
	db *sqlx.DB
}

func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByIdentifier finds an account whose username equals identifier or
// whose email equals identifier (emails compared case-insensitively).
func (r *AdminUserRepository) GetByIdentifier(identifier string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.Get(&user, `
		SELECT `+adminUserColumns+`
		FROM admin_users
		WHERE username = $1 OR email = lower($1)
	`, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *AdminUserRepository) GetByID(id int) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.Get(&user, `SELECT `+adminUserColumns+` FROM admin_users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *AdminUserRepository) List() ([]models.AdminUser, error) {
	users := []models.AdminUser{}
	err := r.db.Select(&users, `SELECT `+adminUserColumns+` FROM admin_users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new account. A storage-level uniqueness violation is
// mapped to the same conflict errors the service-level duplicate scan
// produces, closing the check-then-insert race window.
func (r *AdminUserRepository) Create(user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (username, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *AdminUserRepository) Update(user *models.AdminUser) error {
	query := `
		UPDATE admin_users
		SET username = $1, email = $2, password_hash = $3, role = $4, is_active = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive, user.ID).
		Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrAccountNotFound
	}
	return mapUniqueViolation(err)
}

func (r *AdminUserRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

// CountActiveAdmins returns the number of active accounts of either role.
func (r *AdminUserRepository) CountActiveAdmins() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM admin_users WHERE is_active = true`)
	return n, err
}

// CountAll returns the total number of accounts, used by the setup-status
// endpoint to detect an unprovisioned system.
func (r *AdminUserRepository) CountAll() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM admin_users`)
	return n, err
}

// FindConflicts reports whether another account (excluding excludeID) already
// holds the given username or email. Email comparison is case-insensitive.
func (r *AdminUserRepository) FindConflicts(username, email string, excludeID int) (usernameTaken, emailTaken bool, err error) {
	row := r.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE username = $1) AS by_username,
			COUNT(*) FILTER (WHERE lower(email) = lower($2)) AS by_email
		FROM admin_users
		WHERE id != $3
	`, username, email, excludeID)

	var byUsername, byEmail int
	if err = row.Scan(&byUsername, &byEmail); err != nil {
		return false, false, err
	}
	return byUsername > 0, byEmail > 0, nil
}

// UpdateLastLogin stamps last_login with the current time.
func (r *AdminUserRepository) UpdateLastLogin(id int) error {
	_, err := r.db.Exec(`UPDATE admin_users SET last_login = now() WHERE id = $1`, id)
	return err
}

// mapUniqueViolation translates a postgres unique_violation into the
// matching conflict error based on the violated constraint.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "admin_users_username_key":
			return utils.ErrDuplicateUsername
		case "admin_users_email_lower_idx":
			return utils.ErrDuplicateEmail
		default:
			return utils.ErrDuplicateAccount
		}
	}
	return err
}
